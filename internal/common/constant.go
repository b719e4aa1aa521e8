package common

import "time"

// AuthCookieName is the cookie carrying the session token.
const AuthCookieName = "auth_token"

// RoleAdmin is the single role assigned to every account.
const RoleAdmin = "ADMIN"

// SessionTTL is the lifetime of both the session token and its cookie.
const SessionTTL = 24 * time.Hour

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6
