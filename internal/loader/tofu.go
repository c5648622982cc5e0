// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/crypto/pbkdf2"
)

const pbkdf2Prefix = "key_provider.pbkdf2."

// DecryptOpenTofuState decrypts an encrypted OpenTofu state document. The
// key comes from the first pbkdf2 key provider found in the document's meta;
// encrypted_data is the AES-GCM nonce followed by the sealed state.
func DecryptOpenTofuState(stateData []byte, passphrase string) ([]byte, error) {
	if !gjson.ValidBytes(stateData) {
		return nil, fmt.Errorf("failed to parse state: %w", ErrInvalidState)
	}
	state := gjson.ParseBytes(stateData)

	key, err := deriveKey(state.Get("meta"), passphrase)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(state.Get("encrypted_data").String())
	if err != nil {
		return nil, fmt.Errorf("failed to decode encrypted_data: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	n := gcm.NonceSize()
	if len(data) < n {
		return nil, fmt.Errorf("%w: %d byte ciphertext is shorter than its %d byte nonce",
			ErrInvalidState, len(data), n)
	}
	nonce, sealed := data[:n], data[n:]

	plain, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plain, nil
}

// deriveKey runs pbkdf2 with the settings of the first pbkdf2 key provider in
// meta. Providers are base64 encoded JSON.
func deriveKey(meta gjson.Result, passphrase string) ([]byte, error) {
	var provider string
	meta.ForEach(func(k, v gjson.Result) bool {
		if strings.HasPrefix(k.String(), pbkdf2Prefix) {
			provider = v.String()
			return false
		}
		return true
	})
	if provider == "" {
		return nil, fmt.Errorf("%w: no pbkdf2 key provider in meta", ErrInvalidState)
	}

	raw, err := base64.StdEncoding.DecodeString(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key provider config: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("failed to parse key provider config: %w", ErrInvalidState)
	}
	kp := gjson.ParseBytes(raw)

	salt, err := base64.StdEncoding.DecodeString(kp.Get("salt").String())
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	hashFunc, err := hashFor(kp.Get("hash_function").String())
	if err != nil {
		return nil, err
	}

	iterations, keyLen := int(kp.Get("iterations").Int()), int(kp.Get("key_length").Int())
	return pbkdf2.Key([]byte(passphrase), salt, iterations, keyLen, hashFunc), nil
}

func hashFor(name string) (func() hash.Hash, error) {
	switch name {
	case "", "sha512":
		return sha512.New, nil
	case "sha256":
		return sha256.New, nil
	}
	return nil, fmt.Errorf("%w: unsupported hash function %q", ErrInvalidState, name)
}
