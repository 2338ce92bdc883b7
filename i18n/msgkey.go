// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"io"
	"strings"
)

// Translatable is a value that can translate itself using a context.
// Types such as [MsgKey] and [Deferred] implement Translatable.
type Translatable interface {
	Tr(ctx context.Context) string
}

// MsgKey is a source message id (msgid) string.
//
// Construct with MsgKey("Are you sure you want to quit?") and call Tr(ctx) to resolve
// using the current locale in ctx.
//
// MsgKey should be the original English UI text, not an invented key.
type MsgKey string

// Tr translates this msgid with the default resolver.
// It is equivalent to calling [Tr] with the same msgid.
// The ctx may be nil, in which case the base locale is used.
func (s MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(s))
}

func (s MsgKey) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, s.Tr(ctx))

	return err
}

// Plain is text that is never translated. It lets literal text take part
// in [Concat].
type Plain string

func (s Plain) Tr(context.Context) string {
	return string(s)
}

// Deferred is a message whose resolution is postponed until it is used.
//
// Every call to Tr or Render resolves again in the locale active at that
// moment; nothing is cached in the value. Construct with [Lazy] or
// [Resolver.Lazy].
type Deferred struct {
	r       *Resolver // nil means the default resolver
	message string
	plural  string
	n       int
	isN     bool
	args    []any
}

// Lazy returns a deferred message resolved by the default resolver in use at
// resolution time.
func Lazy(message string, args ...any) Deferred {
	return Deferred{message: message, args: args}
}

// LazyN is the plural form of [Lazy].
func LazyN(singular, plural string, n int, args ...any) Deferred {
	return Deferred{message: singular, plural: plural, n: n, isN: true, args: args}
}

// Lazy returns a deferred message bound to r.
func (r *Resolver) Lazy(message string, args ...any) Deferred {
	return Deferred{r: r, message: message, args: args}
}

// Message returns the untranslated source message.
func (d Deferred) Message() string {
	return d.message
}

// Tr resolves d in the active locale of ctx.
func (d Deferred) Tr(ctx context.Context) string {
	r := d.r
	if r == nil {
		r = Default()
	}

	if d.isN {
		return r.TrN(ctx, d.message, d.plural, d.n, d.args...)
	}

	return r.Tr(ctx, d.message, d.args...)
}

func (d Deferred) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, d.Tr(ctx))

	return err
}

// Concat resolves every part in the active locale of ctx and joins the
// results.
func Concat(ctx context.Context, parts ...Translatable) string {
	var b strings.Builder

	for _, p := range parts {
		b.WriteString(p.Tr(ctx))
	}

	return b.String()
}
