package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveWrapper_NameStable(t *testing.T) {
	first := DeriveWrapper("sendReport")
	second := DeriveWrapper("sendReport")

	assert.Equal(t, first, second, "derivation must be a pure function of the name")
	assert.Equal(t, "cron_sendReport", first.WrapperName)
	assert.Equal(t, "cron-sendReport", first.ContainerDir)
	assert.Equal(t, "sendReport", first.FunctionName)
	assert.Empty(t, first.Path)
}

func TestDeriveWrapper_DistinctPrefixes(t *testing.T) {
	w := DeriveWrapper("x")
	assert.NotEqual(t, w.WrapperName, w.ContainerDir)
}

func TestNormalizeName_NFC(t *testing.T) {
	// "é" written composed (U+00E9) and decomposed (e + U+0301) must derive
	// identical names.
	composed := "caféSync"
	decomposed := "caféSync"

	require.NotEqual(t, composed, decomposed)
	assert.Equal(t, NormalizeName(composed), NormalizeName(decomposed))
	assert.Equal(t, WrapperName(composed), WrapperName(decomposed))
	assert.Equal(t, ContainerDirName(composed), ContainerDirName(decomposed))
}

func TestCallSite_Key(t *testing.T) {
	a := CallSite{FunctionName: "sendReport", Origin: "@/lib/reports", File: "/p/a.ts"}
	b := CallSite{FunctionName: "sendReport", Origin: "@/lib/reports", File: "/p/b.ts"}
	c := CallSite{FunctionName: "sendReport", Origin: "./reports", File: "/p/a.ts"}

	assert.Equal(t, a.Key(), b.Key(), "file path must not affect identity")
	assert.NotEqual(t, a.Key(), c.Key(), "origin is part of identity")
}

func TestCallSite_ImportedName(t *testing.T) {
	plain := CallSite{FunctionName: "sendReport", Kind: ImportNamed}
	renamed := CallSite{FunctionName: "sendReport", SourceName: "send", Kind: ImportNamed}

	assert.Equal(t, "sendReport", plain.ImportedName())
	assert.Equal(t, "send", renamed.ImportedName())
}

func TestBuildManifest(t *testing.T) {
	wrappers := []WrapperDescriptor{
		DeriveWrapper("sendReport"),
		DeriveWrapper("pruneSessions"),
	}

	m := BuildManifest(wrappers)

	require.Len(t, m, 2)
	assert.Equal(t, ManifestEntry{WrapperName: "cron_sendReport", ContainerDir: "cron-sendReport"}, m["sendReport"])
	assert.Equal(t, ManifestEntry{WrapperName: "cron_pruneSessions", ContainerDir: "cron-pruneSessions"}, m["pruneSessions"])
}
