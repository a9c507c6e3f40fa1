package listener

import (
	"encoding/base64"
	"encoding/binary"
	"strings"
	"time"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"

	"solana-launch-watch/internal/domain"
	"solana-launch-watch/internal/solana"
)

// createDiscriminator is the 8-byte Anchor discriminator of the pump.fun
// CreateEvent, little-endian.
const createDiscriminator uint64 = 8530921459188068891

const programDataPrefix = "Program data: "

// ParseCreateEvent extracts a token creation from a transaction log batch.
// Returns (nil, false) for batches that are not clean creations or whose
// event payload is malformed.
func ParseCreateEvent(logs []string, signature string) (*domain.TokenRecord, bool) {
	hasCreate := false
	for _, line := range logs {
		// Token account creation also logs "Create" variants; only a bare
		// Create instruction counts, and CreateTokenAccount batches are
		// associated-account noise, not launches.
		if strings.Contains(line, "Program log: Instruction: CreateTokenAccount") {
			return nil, false
		}
		if strings.Contains(line, "Program log: Instruction: Create") {
			hasCreate = true
		}
	}
	if !hasCreate {
		return nil, false
	}

	for _, line := range logs {
		idx := strings.Index(line, programDataPrefix)
		if idx < 0 {
			continue
		}

		payload, err := base64.StdEncoding.DecodeString(line[idx+len(programDataPrefix):])
		if err != nil {
			log.Debug().Str("signature", signature).Err(err).Msg("bad program data encoding")
			continue
		}

		record, ok := decodeCreateEvent(payload, signature)
		if !ok {
			continue
		}
		return record, true
	}

	return nil, false
}

// decodeCreateEvent decodes the CreateEvent binary layout:
// discriminator u64, then name/symbol/uri as u32 length-prefixed UTF-8,
// then mint, bondingCurve, user, creator as raw 32-byte public keys.
func decodeCreateEvent(data []byte, signature string) (*domain.TokenRecord, bool) {
	if len(data) < 8 {
		return nil, false
	}
	if binary.LittleEndian.Uint64(data[:8]) != createDiscriminator {
		return nil, false
	}
	offset := 8

	readString := func() (string, bool) {
		if offset+4 > len(data) {
			return "", false
		}
		n := int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
		if n < 0 || offset+n > len(data) {
			return "", false
		}
		s := string(data[offset : offset+n])
		offset += n
		return s, true
	}

	readPubkey := func() (string, bool) {
		if offset+32 > len(data) {
			return "", false
		}
		key := base58.Encode(data[offset : offset+32])
		offset += 32
		return key, true
	}

	name, ok := readString()
	if !ok {
		return nil, false
	}
	symbol, ok := readString()
	if !ok {
		return nil, false
	}
	uri, ok := readString()
	if !ok {
		return nil, false
	}
	mint, ok := readPubkey()
	if !ok {
		return nil, false
	}
	bondingCurve, ok := readPubkey()
	if !ok {
		return nil, false
	}
	user, ok := readPubkey()
	if !ok {
		return nil, false
	}
	creator, ok := readPubkey()
	if !ok {
		return nil, false
	}

	record := &domain.TokenRecord{
		Mint:         mint,
		Creator:      creator,
		User:         user,
		Signature:    signature,
		Name:         name,
		Symbol:       symbol,
		MetadataURI:  uri,
		BondingCurve: bondingCurve,
		DetectedAt:   time.Now().UnixMilli(),
	}

	if ata, err := solana.DeriveAssociatedTokenAccount(bondingCurve, mint); err == nil {
		record.AssociatedBondingCurve = ata
	} else {
		log.Debug().Str("signature", signature).Err(err).Msg("derive associated bonding curve failed")
	}
	if vault, err := solana.DeriveCreatorVault(creator); err == nil {
		record.CreatorVault = vault
	} else {
		log.Debug().Str("signature", signature).Err(err).Msg("derive creator vault failed")
	}

	return record, true
}
