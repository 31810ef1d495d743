// Package auth issues and validates the HMAC-signed bearer tokens that
// identify learners. A learner is known only by the UUID in the token; the
// application keeps no account records.
package auth
