// Package credentials stores Kasa cloud account credentials in the
// driver's local SQLite database.
//
// Cloud-connected Kasa devices need the account email and password for
// some backend operations. The store keeps them under a fixed service
// namespace with well-known keys, so the manager CLI and the driver
// process share one source of truth.
//
// # Usage
//
//	store, err := credentials.NewStore(ctx, db)
//	if err != nil {
//	    return err
//	}
//
//	email, password, err := store.CloudAccount(ctx)
//	if errors.Is(err, credentials.ErrNotFound) {
//	    // no account configured, proceed without cloud features
//	}
package credentials
