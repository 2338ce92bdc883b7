// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n resolves messages against compiled GNU gettext catalogues at
runtime. It translates source message IDs (msgids) across locales and
supports plural forms.

# Quick start

Use the original English UI text as the msgid; do not invent keys.

Install a resolver once at startup, then carry the active locale in the
request context:

	r, err := i18n.Setup(&config.Global)
	ctx = r.WithRequest(ctx, req)

	i18n.Tr(ctx, "Are you sure you want to quit?")
	i18n.TrN(ctx, "%d file", "%d files", n, n)
	i18n.Tr(ctx, "Welcome, %(name)s!", i18n.Named{"name": user.Name})

Code that holds a locale code directly can call [Resolver.Resolve] and
[Resolver.ResolvePlural] instead.

Translations can be used directly in templ templates:

	{ i18n.Tr(ctx, "Settings") }
	@i18n.MsgKey("Settings")

# Caching

Each locale's compiled catalogue is read from <root>/<locale>/<domain>.mo on
first use and kept for the life of the resolver. A locale without one is
remembered as having no translations. Call [Resolver.Invalidate] after
recompiling to pick up the new file.

# Missing translations

Missing translations return the msgid unchanged. When StrictMissingKeys is
enabled, missing lookups are also logged once per locale and msgid.

# Formatting

Arguments are applied with fmt.Sprintf, except that a single [Named]
argument selects %(name)s placeholders instead. The two styles are never
combined in one call.

# Deferred messages

[Lazy] returns a [Deferred] message for values built before the locale is
known, such as package-level variables. It is resolved again every time Tr is
called. [Concat] resolves several parts in one locale.

# Legacy strings

[Resolver.Key] falls back to a [LegacyLookup], normally a table loaded by
subpackage i18n/legacy, before returning the key itself.
*/
package i18n
