package descriptor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const testdataDir = "testdata"

func newTestCustomizer() *Customizer {
	return &Customizer{Dir: testdataDir}
}

func TestTemplateFile(t *testing.T) {
	tests := []struct {
		prefix     string
		pluginType string
		want       string
	}{
		{"", "VST", "C74-Gen-VSTPlugin.jucer"},
		{"", "VST3", "C74-Gen-VST3Plugin.jucer"},
		{"", "AU", "C74-Gen-AUPlugin.jucer"},
		{"", "iOS", "C74-Gen-Application.jucer"},
		{"Acme-", "VST", "Acme-VSTPlugin.jucer"},
		{"Acme-", "iOS", "Acme-Application.jucer"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix+tt.pluginType, func(t *testing.T) {
			if got := TemplateFile(tt.prefix, tt.pluginType); got != tt.want {
				t.Errorf("TemplateFile(%q, %q) = %q, want %q", tt.prefix, tt.pluginType, got, tt.want)
			}
		})
	}
}

func TestDefaultName(t *testing.T) {
	if got := DefaultName("", "VST"); got != "C74-Gen-VSTPlugin" {
		t.Errorf("DefaultName = %q, want %q", got, "C74-Gen-VSTPlugin")
	}
	if got := DefaultName("", "iOS"); got != "C74-Gen-iOSPlugin" {
		t.Errorf("DefaultName = %q, want %q", got, "C74-Gen-iOSPlugin")
	}
}

func TestCustomize_VSTDefaults(t *testing.T) {
	c := newTestCustomizer()
	path, p, err := c.Customize(Request{PluginType: "VST", ChannelConfig: "{1,1}, {2,2}"})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(path, "C74-Gen-VSTPlugin.jucer"))
	assert.Equal(t, "C74-Gen-VSTPlugin", p.Name)
	assert.Equal(t, "C74-Gen-VSTPlugin", p.PluginName)
	assert.Equal(t, "C74-Gen-VSTPlugin", p.MainGroupName)
	assert.Equal(t, "com.cycling74.C74-Gen-VSTPlugin", p.BundleIdentifier)
	assert.Equal(t, "C74-Gen-VSTPluginAU", p.PluginAUExportPrefix)
	assert.Equal(t, "com.cycling74.C74-Gen-VSTPlugin", p.AAXIdentifier)
	assert.Equal(t, "{1,1}, {2,2}", p.PluginChannelConfigs)

	// The encoded document must carry the same values.
	reparsed, err := Parse(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, "C74-Gen-VSTPlugin", reparsed.Name)
	assert.Equal(t, "com.cycling74.C74-Gen-VSTPlugin", reparsed.BundleIdentifier)
	assert.Equal(t, "C74-Gen-VSTPluginAU", reparsed.PluginAUExportPrefix)
	assert.Equal(t, "com.cycling74.C74-Gen-VSTPlugin", reparsed.AAXIdentifier)
	assert.Equal(t, "{1,1}, {2,2}", reparsed.PluginChannelConfigs)
	assert.Equal(t, "C74-Gen-VSTPlugin", reparsed.MainGroupName)
}

func TestCustomize_TargetNamesOnPresentExportersOnly(t *testing.T) {
	tests := []struct {
		pluginType string
		present    []ExportFormat
		absent     []ExportFormat
	}{
		{"VST", []ExportFormat{FormatXcodeMac, FormatVS2013}, []ExportFormat{FormatXcodeIPhone, FormatVS2019}},
		{"AU", []ExportFormat{FormatXcodeMac}, []ExportFormat{FormatXcodeIPhone, FormatVS2013, FormatVS2019}},
		{"iOS", []ExportFormat{FormatXcodeIPhone}, []ExportFormat{FormatXcodeMac, FormatVS2013, FormatVS2019}},
	}

	c := newTestCustomizer()
	for _, tt := range tests {
		t.Run(tt.pluginType, func(t *testing.T) {
			_, p, err := c.Customize(Request{PluginType: tt.pluginType, Name: "MyGen", ChannelConfig: "{2,2}"})
			require.NoError(t, err)

			reparsed, err := Parse(p.Encode())
			require.NoError(t, err)

			for _, f := range tt.present {
				e := reparsed.Exporter(f)
				require.NotNil(t, e, "exporter %s should be present", f)
				require.NotEmpty(t, e.TargetNames)
				for i, tn := range e.TargetNames {
					assert.Equal(t, "MyGen", tn, "%s configuration %d", f, i)
				}
			}
			for _, f := range tt.absent {
				assert.Nil(t, reparsed.Exporter(f), "exporter %s should be absent", f)
			}
		})
	}
}

func TestCustomize_ApplicationTemplateGainsPluginIdentity(t *testing.T) {
	c := newTestCustomizer()
	_, p, err := c.Customize(Request{PluginType: "iOS", ChannelConfig: "{1,1}"})
	require.NoError(t, err)

	out := string(p.Encode())
	assert.Contains(t, out, `name="C74-Gen-iOSPlugin"`)
	assert.Contains(t, out, `pluginAUExportPrefix="C74-Gen-iOSPluginAU"`)
	assert.Contains(t, out, `pluginChannelConfigs="{1,1}"`)
}

func TestLoad_NotFound(t *testing.T) {
	c := newTestCustomizer()
	_, err := c.Load("AAX")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTemplateNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "AAX", nf.PluginType)
	assert.True(t, strings.HasSuffix(nf.Path, "C74-Gen-AAXPlugin.jucer"))
}

func TestCustomize_NotFoundBeforeMutation(t *testing.T) {
	c := newTestCustomizer()
	_, p, err := c.Customize(Request{PluginType: "AAX", Name: "x"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Nil(t, p)
}

func TestLoad_MalformedTemplates(t *testing.T) {
	c := newTestCustomizer()
	for _, typ := range []string{"Broken", "WrongRoot"} {
		t.Run(typ, func(t *testing.T) {
			_, err := c.Load(typ)
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrTemplateNotFound), "malformed template is not a missing template")
		})
	}
}

func TestLoad_EmptyType(t *testing.T) {
	_, err := newTestCustomizer().Load("")
	assert.Error(t, err)
}

func TestApplyVersion(t *testing.T) {
	p := &Project{Version: "1.0.0"}
	require.NoError(t, ApplyVersion(p, ""))
	assert.Equal(t, "1.0.0", p.Version)

	require.NoError(t, ApplyVersion(p, "v2.3.4"))
	assert.Equal(t, "2.3.4", p.Version)

	err := ApplyVersion(p, "not-a-version")
	assert.Error(t, err)
	assert.Equal(t, "2.3.4", p.Version)
}

func TestCustomizer_BundlePrefixOverride(t *testing.T) {
	c := &Customizer{Dir: testdataDir, BundlePrefix: "org.example."}
	p := &Project{}
	c.ApplyIdentity(p, "Thing")
	assert.Equal(t, "org.example.Thing", p.BundleIdentifier)
	assert.Equal(t, "org.example.Thing", p.AAXIdentifier)
	assert.Equal(t, "ThingAU", p.PluginAUExportPrefix)
}

func TestListTemplates(t *testing.T) {
	types, err := ListTemplates(testdataDir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"AU", "Broken", "VST", "WrongRoot", "iOS"}, types)

	_, err = ListTemplates("does-not-exist", "")
	assert.Error(t, err)
}

func TestCustomize_Idempotent(t *testing.T) {
	c := newTestCustomizer()
	rapid.Check(t, func(t *rapid.T) {
		typ := rapid.SampledFrom([]string{"VST", "AU", "iOS"}).Draw(t, "type")
		name := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9 ._-]{0,23}`).Draw(t, "name")
		cc := rapid.StringMatching(`(\{[0-9],[0-9]\}(, )?){0,4}`).Draw(t, "channelConfig")

		_, first, err := c.Customize(Request{PluginType: typ, Name: name, ChannelConfig: cc})
		if err != nil {
			t.Fatalf("first customize: %v", err)
		}
		_, second, err := c.Customize(Request{PluginType: typ, Name: name, ChannelConfig: cc})
		if err != nil {
			t.Fatalf("second customize: %v", err)
		}
		a, b := first.Encode(), second.Encode()
		if string(a) != string(b) {
			t.Fatalf("customizing twice produced different bytes")
		}
		if string(first.Encode()) != string(a) {
			t.Fatalf("encoding twice produced different bytes")
		}
	})
}

func TestApplyIdentity_DependsOnlyOnName(t *testing.T) {
	c := newTestCustomizer()
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z0-9][A-Za-z0-9._-]{0,23}`).Draw(t, "name")

		_, vst, err := c.Customize(Request{PluginType: "VST", Name: name, ChannelConfig: "{1,1}"})
		if err != nil {
			t.Fatalf("customize VST: %v", err)
		}
		_, au, err := c.Customize(Request{PluginType: "AU", Name: name, ChannelConfig: "{2,2}"})
		if err != nil {
			t.Fatalf("customize AU: %v", err)
		}

		if vst.BundleIdentifier != au.BundleIdentifier ||
			vst.PluginAUExportPrefix != au.PluginAUExportPrefix ||
			vst.AAXIdentifier != au.AAXIdentifier ||
			vst.Name != au.Name {
			t.Fatalf("identity differs between templates for name %q", name)
		}
		if vst.BundleIdentifier != DefaultBundlePrefix+name {
			t.Fatalf("BundleIdentifier = %q", vst.BundleIdentifier)
		}
	})
}
