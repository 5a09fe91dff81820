// Package linkopp serves link-building opportunities: accepted anchor-text
// suggestions for a page, each with a short snippet of surrounding text.
//
// This package contains domain types, interfaces and the pure selection and
// extraction core. Implementations live in subdirectories named after their
// primary dependency (e.g., sqlite/, gin/, bloom/).
package linkopp
