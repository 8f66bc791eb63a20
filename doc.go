// Package authtoken issues and validates the signed tokens behind a web
// application's authentication layer: long-lived refresh tokens recorded in
// persistent storage, and short-lived session tokens minted from a refresh
// token's email subject.
package authtoken
