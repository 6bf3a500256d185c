// Package schema defines the declarative form description consumed by the
// renderer, the validator and the response store. A FormSchema is produced once
// at startup (usually by pkg/config) and is treated as immutable afterwards:
// accessors hand out copies so request handlers cannot mutate shared state.
//
// Field names double as storage keys in the response log, which is why
// FormSchema.Validate rejects empty, duplicate and reserved names before the
// process starts serving traffic.
package schema
