// Package captcha generates and validates the human-check codes that gate
// login.
//
// Codes are short alphanumeric strings with visually confusable characters
// excluded, rendered to a base64 PNG for transport. The plaintext code is
// stored in Redis under the client fingerprint with a short TTL; generating
// again overwrites it, validating successfully consumes it.
package captcha
