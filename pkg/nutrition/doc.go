// Package nutrition defines the food identities, raw provider payloads and
// reconciled records exchanged between the nutrimap packages.
//
// Provider payloads mirror the wire format of each API closely enough to be
// decoded directly. Numeric nutrient fields that a provider may omit are
// pointers: nil means the provider did not answer, while a present zero is a
// real reading.
package nutrition
