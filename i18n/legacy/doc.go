// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package legacy provides lookups in string tables that predate the gettext
catalogues. Tables are YAML or TOML files whose top-level string values form
the default namespace and whose top-level maps form named namespaces:

	greeting: Hello
	errors:
	  not_found: Page not found

These strings are not translated; they are served as written.
*/
package legacy
