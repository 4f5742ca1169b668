// Package domain contains the core StructPDF types: the payload envelope,
// the keyword signal, validation of caller-supplied JSON, and the error
// taxonomy shared by the injection and extraction pipelines.
//
// The domain layer has no dependencies on adapters or external services.
package domain
