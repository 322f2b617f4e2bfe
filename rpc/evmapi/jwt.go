// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package evmapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/golang-jwt/jwt/v4"
	"github.com/ledgerwatch/log/v3"
)

const (
	jwtSecretLen = 32
	// tokens must be issued within this window around the current time
	jwtIssuedAtWindow = 60 * time.Second
)

// ObtainJWTSecret loads the hex encoded secret at path, generating and storing a
// fresh one when the file does not exist.
func ObtainJWTSecret(path string, logger log.Logger) ([]byte, error) {
	logger.Info("Reading JWT secret", "path", path)
	if data, err := os.ReadFile(path); err == nil {
		hexSecret := strings.TrimSpace(string(data))
		if !strings.HasPrefix(hexSecret, "0x") && !strings.HasPrefix(hexSecret, "0X") {
			hexSecret = "0x" + hexSecret
		}
		jwtSecret, err := hexutil.Decode(hexSecret)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT secret %s: %w", path, err)
		}
		if len(jwtSecret) != jwtSecretLen {
			logger.Error("Invalid JWT secret", "path", path, "length", len(jwtSecret))
			return nil, fmt.Errorf("invalid JWT secret %s: %d bytes, want %d", path, len(jwtSecret), jwtSecretLen)
		}
		return jwtSecret, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	jwtSecret := make([]byte, jwtSecretLen)
	if _, err := rand.Read(jwtSecret); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(hexutil.Encode(jwtSecret)), 0600); err != nil {
		return nil, err
	}
	logger.Info("Generated JWT secret", "path", path)
	return jwtSecret, nil
}

// jwtAuth rejects requests without a valid HS256 bearer token whose iat claim is
// within jwtIssuedAtWindow of now.
func jwtAuth(secret []byte) func(http.Handler) http.Handler {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				strToken string
				claims   jwt.RegisteredClaims
			)
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				strToken = strings.TrimPrefix(auth, "Bearer ")
			}
			if len(strToken) == 0 {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			token, err := jwt.ParseWithClaims(strToken, &claims, keyFunc, jwt.WithValidMethods([]string{"HS256"}))
			switch {
			case err != nil:
				http.Error(w, err.Error(), http.StatusUnauthorized)
			case !token.Valid:
				http.Error(w, "invalid token", http.StatusUnauthorized)
			case claims.IssuedAt == nil:
				http.Error(w, "missing issued-at", http.StatusUnauthorized)
			case time.Since(claims.IssuedAt.Time) > jwtIssuedAtWindow:
				http.Error(w, "stale token", http.StatusUnauthorized)
			case time.Until(claims.IssuedAt.Time) > jwtIssuedAtWindow:
				http.Error(w, "future token", http.StatusUnauthorized)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
