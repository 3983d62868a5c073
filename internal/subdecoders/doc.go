// Package subdecoders holds the decoders for OCTET STRING contents whose
// format belongs to protocols other than CAMEL: ISUP numbers, the Q.850
// cause and GSM MAP address strings. They are plugged into a decoder by
// name and never imported by the decode core.
package subdecoders
