// Package services implements the driving port interfaces.
// Services contain the core business logic: the search engine over the
// partially materialised tree, the reclaimer bounding memory residency,
// and the document session that serialises all tree mutation.
package services
