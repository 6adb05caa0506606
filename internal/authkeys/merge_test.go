package authkeys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	keyAlice = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIAlice alice@laptop"
	keyBob   = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIBob bob@desktop"
	keyCarol = "ssh-rsa AAAAB3NzaC1yc2ECarol carol@ci"
)

func TestMerge_Union(t *testing.T) {
	a := []byte(keyBob + "\n" + keyAlice + "\n")
	b := []byte(keyCarol + "\n" + keyAlice + "\n")

	merged := Merge(a, b)

	assert.Equal(t, keyAlice+"\n"+keyBob+"\n"+keyCarol+"\n", string(merged))
}

func TestMerge_WithItselfIsIdempotent(t *testing.T) {
	a := []byte(keyBob + "\n" + keyAlice + "\n" + keyBob + "\n")

	once := Merge(a, a)
	twice := Merge(once, once)

	assert.Equal(t, string(once), string(twice))
	assert.Equal(t, keyAlice+"\n"+keyBob+"\n", string(once))
}

func TestMerge_DropsBlankLinesAndTrailingWhitespace(t *testing.T) {
	a := []byte("\n" + keyAlice + "  \n\n")
	b := []byte(keyAlice + "\n")

	merged := Merge(a, b)

	assert.Equal(t, keyAlice+"\n", string(merged))
}

func TestMerge_BothEmpty(t *testing.T) {
	merged := Merge(nil, []byte("\n\n"))

	assert.Empty(t, merged)
}

func TestMerge_OneSideEmpty(t *testing.T) {
	merged := Merge([]byte(keyCarol+"\n"), nil)

	assert.Equal(t, keyCarol+"\n", string(merged))
}
