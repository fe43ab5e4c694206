package feeds

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefinitions_NoPath(t *testing.T) {
	defs, err := LoadDefinitions("")
	if err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}
	if len(defs) != len(Kinds) {
		t.Errorf("expected %d definitions, got %d", len(Kinds), len(defs))
	}
	if defs[KindNew].MinLiquidity != 1000 {
		t.Errorf("expected default new minimum 1000, got %f", defs[KindNew].MinLiquidity)
	}
}

func TestLoadDefinitions_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := `feeds:
  new:
    seeds: [bonk, wif]
    min_liquidity_usd: 2500
  trending:
    max_results: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	defs, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("LoadDefinitions: %v", err)
	}

	newDef := defs[KindNew]
	if len(newDef.Seeds) != 2 || newDef.Seeds[0] != "bonk" {
		t.Errorf("seeds not overridden: %v", newDef.Seeds)
	}
	if newDef.MinLiquidity != 2500 {
		t.Errorf("liquidity not overridden: %f", newDef.MinLiquidity)
	}
	if newDef.MaxResults != 50 {
		t.Errorf("untouched cap changed: %d", newDef.MaxResults)
	}
	if defs[KindTrending].MaxResults != 10 {
		t.Errorf("trending cap not overridden: %d", defs[KindTrending].MaxResults)
	}
	// Ordering is not tunable
	if defs[KindNew].Ordering != OrderCreatedDesc {
		t.Errorf("ordering changed: %s", defs[KindNew].Ordering)
	}
}

func TestLoadDefinitions_RejectsShortSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := "feeds:\n  new:\n    seeds: [a]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadDefinitions(path); err == nil {
		t.Fatal("expected error for sub-minimum seed length")
	}
}

func TestLoadDefinitions_RejectsUnknownFeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := "feeds:\n  moonshots:\n    seeds: [pepe]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadDefinitions(path); err == nil {
		t.Fatal("expected error for unknown feed kind")
	}
}
