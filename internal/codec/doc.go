// Package codec validates and decodes the externally supplied key and
// value representations. It is the only gate between untrusted request
// fields and filesystem paths: a key that passes ValidKey is safe to use
// as a file name inside the store directory.
package codec
