package listener

import (
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
)

// encodeCreateEvent builds a binary CreateEvent payload for tests.
func encodeCreateEvent(t *testing.T, name, symbol, uri string, mint, curve, user, creator []byte) []byte {
	t.Helper()

	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, createDiscriminator)

	appendString := func(s string) {
		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(s)))
		buf = append(buf, lenBuf...)
		buf = append(buf, s...)
	}

	appendString(name)
	appendString(symbol)
	appendString(uri)
	buf = append(buf, mint...)
	buf = append(buf, curve...)
	buf = append(buf, user...)
	buf = append(buf, creator...)
	return buf
}

func testKeys() (mint, curve, user, creator []byte) {
	mint = make([]byte, 32)
	curve = make([]byte, 32)
	user = make([]byte, 32)
	creator = make([]byte, 32)
	mint[0] = 1
	curve[0] = 2
	user[0] = 3
	creator[0] = 4
	return
}

func TestParseCreateEvent(t *testing.T) {
	mint, curve, user, creator := testKeys()
	payload := encodeCreateEvent(t, "Moon Cat", "MCAT", "https://example.com/meta.json",
		mint, curve, user, creator)

	logs := []string{
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P invoke [1]",
		"Program log: Instruction: Create",
		"Program data: " + base64.StdEncoding.EncodeToString(payload),
		"Program 6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P success",
	}

	record, ok := ParseCreateEvent(logs, "sig123")
	if !ok {
		t.Fatal("expected parse to succeed")
	}

	if record.Name != "Moon Cat" {
		t.Errorf("expected name Moon Cat, got %q", record.Name)
	}
	if record.Symbol != "MCAT" {
		t.Errorf("expected symbol MCAT, got %q", record.Symbol)
	}
	if record.MetadataURI != "https://example.com/meta.json" {
		t.Errorf("unexpected uri %q", record.MetadataURI)
	}
	if record.Mint != base58.Encode(mint) {
		t.Errorf("expected mint %s, got %s", base58.Encode(mint), record.Mint)
	}
	if record.BondingCurve != base58.Encode(curve) {
		t.Errorf("unexpected bonding curve %s", record.BondingCurve)
	}
	if record.User != base58.Encode(user) {
		t.Errorf("unexpected user %s", record.User)
	}
	if record.Creator != base58.Encode(creator) {
		t.Errorf("unexpected creator %s", record.Creator)
	}
	if record.Signature != "sig123" {
		t.Errorf("unexpected signature %s", record.Signature)
	}
	if record.DetectedAt == 0 {
		t.Error("expected DetectedAt to be set")
	}
	if record.AssociatedBondingCurve == "" {
		t.Error("expected derived associated bonding curve")
	}
	if record.CreatorVault == "" {
		t.Error("expected derived creator vault")
	}
}

func TestParseCreateEvent_NoCreateInstruction(t *testing.T) {
	mint, curve, user, creator := testKeys()
	payload := encodeCreateEvent(t, "X", "XX", "u", mint, curve, user, creator)

	logs := []string{
		"Program log: Instruction: Buy",
		"Program data: " + base64.StdEncoding.EncodeToString(payload),
	}

	if _, ok := ParseCreateEvent(logs, "sig"); ok {
		t.Error("expected parse to fail without Create instruction")
	}
}

func TestParseCreateEvent_CreateTokenAccount(t *testing.T) {
	mint, curve, user, creator := testKeys()
	payload := encodeCreateEvent(t, "X", "XX", "u", mint, curve, user, creator)

	logs := []string{
		"Program log: Instruction: Create",
		"Program log: Instruction: CreateTokenAccount",
		"Program data: " + base64.StdEncoding.EncodeToString(payload),
	}

	if _, ok := ParseCreateEvent(logs, "sig"); ok {
		t.Error("expected CreateTokenAccount batch to be rejected")
	}
}

func TestParseCreateEvent_WrongDiscriminator(t *testing.T) {
	mint, curve, user, creator := testKeys()
	payload := encodeCreateEvent(t, "X", "XX", "u", mint, curve, user, creator)
	binary.LittleEndian.PutUint64(payload[:8], 42)

	logs := []string{
		"Program log: Instruction: Create",
		"Program data: " + base64.StdEncoding.EncodeToString(payload),
	}

	if _, ok := ParseCreateEvent(logs, "sig"); ok {
		t.Error("expected wrong discriminator to be rejected")
	}
}

func TestParseCreateEvent_Truncated(t *testing.T) {
	mint, curve, user, creator := testKeys()
	payload := encodeCreateEvent(t, "X", "XX", "u", mint, curve, user, creator)

	for _, cut := range []int{4, 8, 12, 20, len(payload) - 1} {
		logs := []string{
			"Program log: Instruction: Create",
			"Program data: " + base64.StdEncoding.EncodeToString(payload[:cut]),
		}
		if _, ok := ParseCreateEvent(logs, "sig"); ok {
			t.Errorf("expected truncated payload (len %d) to be rejected", cut)
		}
	}
}

func TestParseCreateEvent_BadBase64(t *testing.T) {
	logs := []string{
		"Program log: Instruction: Create",
		"Program data: %%%not-base64%%%",
	}

	if _, ok := ParseCreateEvent(logs, "sig"); ok {
		t.Error("expected invalid base64 to be rejected")
	}
}

func TestParseCreateEvent_NoProgramData(t *testing.T) {
	logs := []string{
		"Program log: Instruction: Create",
		"Program log: something else",
	}

	if _, ok := ParseCreateEvent(logs, "sig"); ok {
		t.Error("expected missing program data to be rejected")
	}
}
