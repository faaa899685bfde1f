// Package password hashes and verifies credentials with argon2id in PHC
// string format. The engine only verifies; Hash exists for the surrounding
// admin layer, which owns the credential column.
package password
