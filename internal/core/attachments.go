// Package core holds the per-invocation context types (Ctx and the three
// hook contexts), the World/Setup extension surface, and the handler
// function shapes — the pieces internal/executor drives and the root
// package re-exports under friendlier names (spec §3.1, §6.5).
package core

import (
	"encoding/base64"
	"sync"
)

// AttachmentKind distinguishes an embedded body from an external URL
// reference.
type AttachmentKind int

const (
	AttachmentEmbedded AttachmentKind = iota
	AttachmentExternal
)

// Encoding is the body encoding of an embedded attachment.
type Encoding int

const (
	EncodingIdentity Encoding = iota
	EncodingBase64
)

// AttachmentEntry is one drained attachment, ready for envelope emission.
type AttachmentEntry struct {
	Kind      AttachmentKind
	Body      string
	MediaType string
	FileName  string
	Encoding  Encoding
	URL       string
}

// attachments is embedded into every *Ctx type; spec §4.8 gives each
// context exactly these three methods.
type attachments struct {
	mu      sync.Mutex
	entries []AttachmentEntry
}

func (a *attachments) Attach(body, mediaType string, fileName ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, AttachmentEntry{
		Kind:      AttachmentEmbedded,
		Body:      body,
		MediaType: mediaType,
		FileName:  first(fileName),
		Encoding:  EncodingIdentity,
	})
}

func (a *attachments) AttachBytes(data []byte, mediaType string, fileName ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, AttachmentEntry{
		Kind:      AttachmentEmbedded,
		Body:      base64.StdEncoding.EncodeToString(data),
		MediaType: mediaType,
		FileName:  first(fileName),
		Encoding:  EncodingBase64,
	})
}

func (a *attachments) AttachURL(url, mediaType string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.entries = append(a.entries, AttachmentEntry{
		Kind:      AttachmentExternal,
		URL:       url,
		MediaType: mediaType,
	})
}

// Drain returns and clears every pending attachment.
func (a *attachments) Drain() []AttachmentEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := a.entries
	a.entries = nil

	return out
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}

	return ss[0]
}
