// Package domain defines the store's data model, size limits and error
// taxonomy shared across the app. It contains plain types and sentinel
// errors only.
package domain
