// Package protocol groups the BER decoding layers.
//
// Ownership boundary:
// - ber: tag/length reader, primitive decoders, values, error kinds
// - schema: declarative field and type descriptions, construction checks
// - decode: schema-driven structural decoder, sinks, delegation
// - ros: component envelope and operation-indexed payload dispatch
// - tcap: transaction wrapper and dialogue application context
package protocol
