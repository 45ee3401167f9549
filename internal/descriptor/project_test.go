package descriptor

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFile_VSTTemplate(t *testing.T) {
	p, err := ParseFile(filepath.Join(testdataDir, "C74-Gen-VSTPlugin.jucer"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if p.Name != "C74-Gen-VSTPlugin" {
		t.Errorf("Name = %q, want %q", p.Name, "C74-Gen-VSTPlugin")
	}
	if p.PluginChannelConfigs != "{1, 1}, {2, 2}" {
		t.Errorf("PluginChannelConfigs = %q", p.PluginChannelConfigs)
	}
	if p.MainGroupName != "C74GenPlugin" {
		t.Errorf("MainGroupName = %q, want %q", p.MainGroupName, "C74GenPlugin")
	}
	if p.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", p.Version, "1.0.0")
	}
	if len(p.Exporters) != 2 {
		t.Fatalf("Exporters len = %d, want 2", len(p.Exporters))
	}
	if p.Exporters[0].Format != FormatXcodeMac || p.Exporters[1].Format != FormatVS2013 {
		t.Errorf("Exporters = %v", p.Exporters)
	}
	if n := len(p.Exporters[0].TargetNames); n != 2 {
		t.Errorf("XCODE_MAC configurations = %d, want 2", n)
	}
}

func TestEncode_PreservesUnknownContent(t *testing.T) {
	p, err := ParseFile(filepath.Join(testdataDir, "C74-Gen-VSTPlugin.jucer"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(p.Encode())

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`id="mxJ3Ln"`,
		`pluginManufacturerCode="C74"`,
		`<MODULES id="juce_core" showAllCode="1" useLocalCopy="0"/>`,
		`<JUCEOPTIONS JUCE_QUICKTIME="disabled"/>`,
		`vstFolder="..\VST-SDK"`,
		`file="../Source/PluginProcessor.cpp"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded descriptor missing %s", want)
		}
	}
}

func TestEncode_AttributeOrderStable(t *testing.T) {
	p, err := ParseFile(filepath.Join(testdataDir, "C74-Gen-VSTPlugin.jucer"))
	if err != nil {
		t.Fatal(err)
	}
	p.Name = "Renamed"
	out := string(p.Encode())

	// name stays between id and projectType.
	idx := strings.Index(out, `<JUCERPROJECT id="mxJ3Ln" name="Renamed" projectType="audioplug"`)
	if idx < 0 {
		t.Errorf("root attributes reordered:\n%s", out[:200])
	}
}

func TestEncode_EmptyFieldsDoNotAddAttributes(t *testing.T) {
	p, err := Parse([]byte(`<JUCERPROJECT name="a"><MAINGROUP/></JUCERPROJECT>`))
	if err != nil {
		t.Fatal(err)
	}
	out := string(p.Encode())
	if !strings.Contains(out, `<JUCERPROJECT name="a">`) {
		t.Errorf("unexpected attributes added:\n%s", out)
	}
	// MAINGROUP without a name stays without one.
	if !strings.Contains(out, "<MAINGROUP/>") {
		t.Errorf("MAINGROUP changed:\n%s", out)
	}
}

func TestEncode_EscapesAttributeValues(t *testing.T) {
	p, err := Parse([]byte(`<JUCERPROJECT name="a"/>`))
	if err != nil {
		t.Fatal(err)
	}
	p.Name = `Tom & "Jerry" <3`
	reparsed, err := Parse(p.Encode())
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if reparsed.Name != p.Name {
		t.Errorf("Name = %q, want %q", reparsed.Name, p.Name)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"unclosed", `<JUCERPROJECT><MAINGROUP></JUCERPROJECT>`},
		{"wrong root", `<PROJECT/>`},
		{"two roots", `<JUCERPROJECT/><JUCERPROJECT/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.jucer"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
