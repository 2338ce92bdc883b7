// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

// logMissingOnce logs a missing translation once per (locale, message) pair
// when strict mode is enabled. The base locale is written in source strings
// and is never reported.
func (r *Resolver) logMissingOnce(locale, message string) {
	if !r.strict || locale == r.base {
		return
	}

	id := locale + "\x00" + message
	if _, loaded := r.missingOnce.LoadOrStore(id, struct{}{}); !loaded {
		r.logger.Warn().
			Str("locale", locale).
			Str("key", message).
			Msg("Missing i18n translation")
	}
}
