package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kombatant/nvidia-oc/internal/settings"
)

func fullCommand() Command {
	return NewCommand("/usr/bin/nvidia_oc", 0, settings.Settings{
		PowerLimit: settings.Uint32(400000),
		FreqOffset: settings.Int32(150),
		MemOffset:  settings.Int32(-500),
		MinClock:   settings.Uint32(0),
		MaxClock:   settings.Uint32(3800),
	})
}

// =============================================================================
// Rendering
// =============================================================================

func TestCommand_String(t *testing.T) {
	assert.Equal(t,
		"/usr/bin/nvidia_oc set --index 0 --power-limit 400000 --freq-offset 150 --mem-offset -500 --min-clock 0 --max-clock 3800",
		fullCommand().String())
}

func TestCommand_String_MemClocks(t *testing.T) {
	c := fullCommand()
	c.Settings.MinMemClock = settings.Uint32(405)
	c.Settings.MaxMemClock = settings.Uint32(10501)

	assert.Equal(t,
		"/usr/bin/nvidia_oc set --index 0 --power-limit 400000 --freq-offset 150 --mem-offset -500 --min-clock 0 --max-clock 3800 --min-mem-clock 405 --max-mem-clock 10501",
		c.String())
}

func TestCommand_Args_Partial(t *testing.T) {
	c := NewCommand("nvidia_oc", 2, settings.Settings{FreqOffset: settings.Int32(-100)})
	assert.Equal(t, []string{"set", "--index", "2", "--freq-offset", "-100"}, c.Args())
}

func TestCommand_Equal(t *testing.T) {
	a := fullCommand()
	b := fullCommand()
	b.Program = "/opt/other"
	assert.True(t, a.Equal(b))

	b.Settings.MaxClock = settings.Uint32(3700)
	assert.False(t, a.Equal(b))
}

func TestRenderUnit(t *testing.T) {
	expected := "[Unit]\n" +
		"Description=NVIDIA Overclocking Service\n" +
		"After=network.target\n" +
		"\n" +
		"[Service]\n" +
		"ExecStart=/usr/bin/nvidia_oc set --index 0 --power-limit 400000 --freq-offset 150 --mem-offset -500 --min-clock 0 --max-clock 3800\n" +
		"User=root\n" +
		"Restart=on-failure\n" +
		"\n" +
		"[Install]\n" +
		"WantedBy=multi-user.target\n"

	assert.Equal(t, expected, RenderUnit(fullCommand()))
}

// =============================================================================
// Parsing
// =============================================================================

func TestParseExecStart(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Command
	}{
		{
			name: "plain",
			line: "ExecStart=/usr/bin/nvidia_oc set --index 1 --power-limit 250000 --freq-offset 100",
			expected: Command{Program: "/usr/bin/nvidia_oc", Index: settings.Uint32(1), Settings: settings.Settings{
				PowerLimit: settings.Uint32(250000), FreqOffset: settings.Int32(100),
			}},
		},
		{
			name: "quoted",
			line: `ExecStart="/usr/bin/nvidia_oc set --index 0 --mem-offset -300"`,
			expected: Command{Program: "/usr/bin/nvidia_oc", Index: settings.Uint32(0), Settings: settings.Settings{
				MemOffset: settings.Int32(-300),
			}},
		},
		{
			name: "unknown tokens ignored",
			line: "ExecStart=/bin/x --verbose set --quiet --index 0 extra --max-clock 3000",
			expected: Command{Program: "/bin/x", Index: settings.Uint32(0), Settings: settings.Settings{
				MaxClock: settings.Uint32(3000),
			}},
		},
		{
			name: "unparsable value leaves field unset",
			line: "ExecStart=/bin/x set --index abc --power-limit -5 --freq-offset 1.5 --min-clock 10",
			expected: Command{Program: "/bin/x", Settings: settings.Settings{
				MinClock: settings.Uint32(10),
			}},
		},
		{
			name:     "missing trailing value",
			line:     "ExecStart=/bin/x set --index",
			expected: Command{Program: "/bin/x"},
		},
		{
			name:     "no set subcommand",
			line:     "ExecStart=/bin/x --index 3",
			expected: Command{Program: "/bin/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseExecStart(tt.line))
		})
	}
}

func TestParseUnitFile(t *testing.T) {
	cmd, ok := ParseUnitFile("[Unit]\nDescription=x\n\n[Service]\n  ExecStart=/bin/x set --index 4 --max-clock 2000\n")
	require.True(t, ok)
	assert.Equal(t, settings.Uint32(4), cmd.Index)
	assert.Equal(t, settings.Uint32(2000), cmd.Settings.MaxClock)

	_, ok = ParseUnitFile("[Unit]\nDescription=x\n")
	assert.False(t, ok)
}

func TestParseRenderRoundTrip(t *testing.T) {
	withMem := fullCommand()
	withMem.Settings.MinMemClock = settings.Uint32(405)
	withMem.Settings.MaxMemClock = settings.Uint32(9001)

	cases := []Command{
		fullCommand(),
		withMem,
		NewCommand("/usr/local/bin/nvidia_oc", 3, settings.Settings{
			PowerLimit: settings.Uint32(0),
			FreqOffset: settings.Int32(-2000),
			MemOffset:  settings.Int32(20000),
			MinClock:   settings.Uint32(5000),
			MaxClock:   settings.Uint32(5000),
		}),
	}

	for _, c := range cases {
		t.Run(c.String(), func(t *testing.T) {
			parsed, ok := ParseUnitFile(RenderUnit(c))
			require.True(t, ok)
			assert.Equal(t, c, parsed)
		})
	}
}
