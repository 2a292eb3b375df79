// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package auth

import "time"

// # Session Constraints

const (
	// SessionTTL is the duration a login session remains valid without
	// re-authentication. Long-lived (30 days) to provide a good member
	// experience; sessions are opaque tokens, not self-expiring JWTs.
	SessionTTL = 30 * 24 * time.Hour

	// SessionTokenLength is the byte length of the random session token.
	SessionTokenLength = 32

	// PartnerSessionTTL is the duration a partner onboarding session
	// remains valid. Shorter than regular sessions (7 days) because the
	// onboarding flow is expected to complete quickly.
	PartnerSessionTTL = 7 * 24 * time.Hour
)
