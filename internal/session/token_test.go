// internal/session/token_test.go

package session

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("sess1", "u1", RolePromotor, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.SessionID != "sess1" || claims.UserID != "u1" || claims.Role != RolePromotor {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("sess1", "u1", RolePromotor, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ValidateToken(token, "other"); err == nil {
		t.Fatal("ValidateToken accepted a token signed with a different secret")
	}
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("sess1", "u1", RolePromotor, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ValidateToken(token, "secret"); err == nil {
		t.Fatal("ValidateToken accepted an expired token")
	}
}
