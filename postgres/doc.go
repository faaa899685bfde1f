// Package postgres implements authcore.CredentialStore over pgx.
//
// Only the two queries the engine consumes live here: the credential
// lookup and the flattened role/permission row query. Schema ownership,
// migrations, and the rest of the admin CRUD stay with the surrounding
// application.
package postgres
