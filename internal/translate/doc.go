// Package translate fills segment translations through a chat-completion
// backend. Batches degrade independently: any failure inside a batch falls
// back to verbatim source text for the segments still missing a translation,
// and the run continues.
package translate
