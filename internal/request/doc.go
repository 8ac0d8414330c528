// Package request loads build requests from HCL or YAML documents and turns
// them into serializer requests.
//
// Card fields are kept as expression text. In HCL documents the fields are
// written as native expressions and captured by their source range, so
// `originz - length` reaches the serializer exactly as written.
package request
