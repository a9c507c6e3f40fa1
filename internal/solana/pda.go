package solana

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Well-known program IDs used for address derivation.
const (
	PumpProgram             = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	TokenProgram            = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	AssociatedTokenProgram  = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	MetaplexMetadataProgram = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

// FindProgramAddress derives a Program Derived Address for the given seeds
// and program ID. Bumps are tried from 255 down; the first hash that is not
// a valid ed25519 curve point is the PDA.
func FindProgramAddress(seeds [][]byte, programID string) (string, uint8, error) {
	programBytes, err := base58.Decode(programID)
	if err != nil {
		return "", 0, fmt.Errorf("decode program id: %w", err)
	}
	if len(programBytes) != 32 {
		return "", 0, fmt.Errorf("program id must be 32 bytes, got %d", len(programBytes))
	}

	for bump := 255; bump > 0; bump-- {
		data := make([]byte, 0, 128)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, byte(bump))
		data = append(data, programBytes...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:]), uint8(bump), nil
		}
	}

	return "", 0, fmt.Errorf("no valid bump seed found")
}

// DeriveBondingCurve derives the pump.fun bonding curve address for a mint.
func DeriveBondingCurve(mint string) (string, error) {
	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return "", fmt.Errorf("decode mint: %w", err)
	}

	addr, _, err := FindProgramAddress([][]byte{
		[]byte("bonding-curve"),
		mintBytes,
	}, PumpProgram)
	return addr, err
}

// DeriveCreatorVault derives the pump.fun creator vault address for a
// token creator wallet.
func DeriveCreatorVault(creator string) (string, error) {
	creatorBytes, err := base58.Decode(creator)
	if err != nil {
		return "", fmt.Errorf("decode creator: %w", err)
	}

	addr, _, err := FindProgramAddress([][]byte{
		[]byte("creator-vault"),
		creatorBytes,
	}, PumpProgram)
	return addr, err
}

// DeriveAssociatedTokenAccount derives the associated token account that
// holds the given mint for the given owner.
func DeriveAssociatedTokenAccount(owner, mint string) (string, error) {
	ownerBytes, err := base58.Decode(owner)
	if err != nil {
		return "", fmt.Errorf("decode owner: %w", err)
	}
	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return "", fmt.Errorf("decode mint: %w", err)
	}
	tokenProgramBytes, err := base58.Decode(TokenProgram)
	if err != nil {
		return "", fmt.Errorf("decode token program: %w", err)
	}

	addr, _, err := FindProgramAddress([][]byte{
		ownerBytes,
		tokenProgramBytes,
		mintBytes,
	}, AssociatedTokenProgram)
	return addr, err
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
