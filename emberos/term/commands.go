package term

import (
	"strconv"

	"github.com/google/shlex"

	"ember/emberos/bf"
	"ember/emberos/kernel"
	"ember/internal/buildinfo"
)

type command struct {
	name  string
	alias string
	help  string
	run   func(t *Terminal, ctx *kernel.Context, args []string)
}

var commands = []command{
	{name: "hi", help: "welcomes you",
		run: func(t *Terminal, _ *kernel.Context, _ []string) {
			t.print("Hi, there! This is ember " + buildinfo.Short() + "\n")
		}},
	{name: "pony", alias: "p", help: "surprise!",
		run: func(t *Terminal, _ *kernel.Context, _ []string) {
			t.print(ponyArt)
		}},
	{name: "led-fun", help: "some fun with LEDs",
		run: func(t *Terminal, ctx *kernel.Context, _ []string) {
			ctx.Fire(t.cfg.LedFun)
		}},
	{name: "temp", alias: "temperature", help: "read temperature from HTU21D sensor",
		run: func(t *Terminal, ctx *kernel.Context, _ []string) {
			if t.cfg.Sensor == nil || !t.cfg.Sensor.Start() {
				t.print("No sensor on this board\n")
				return
			}
			t.mode = modeSensor
			t.sensorDeadline = ctx.Now() + t.cfg.SensorWait
		}},
	{name: "mem", help: "arena statistics",
		run: func(t *Terminal, _ *kernel.Context, _ []string) {
			st := t.cfg.Arena.Stats()
			t.print("arena: " + strconv.FormatUint(uint64(st.UsedBytes), 10) +
				"/" + strconv.FormatUint(uint64(st.UsableBytes), 10) + " bytes used, " +
				strconv.FormatUint(uint64(st.LiveBlocks), 10) + " blocks, peak " +
				strconv.FormatUint(uint64(st.PeakBytes), 10) + ", failed allocs " +
				strconv.FormatUint(uint64(st.FailedAllocs), 10) + "\n")
		}},
	{name: "bf", help: "run a brainfuck program",
		run: func(t *Terminal, _ *kernel.Context, args []string) {
			if len(args) != 2 {
				t.print("usage: bf <program>\n")
				return
			}
			if err := bf.Run([]byte(args[1]), (*termWriter)(t), t.cfg.Arena, 0); err != nil {
				t.print(err.Error() + "\n")
				return
			}
			t.print("\n")
		}},
	{name: "panic", help: "throw a panic",
		run: func(_ *Terminal, _ *kernel.Context, _ []string) {
			panic("requested from the terminal")
		}},
}

// The help entry and the +3/-3 .. +6/-6 LED switches are appended at init
// time: helpText walks the command table, so the entry cannot live in the
// literal initializer.
func init() {
	commands = append(commands, command{name: "help", help: "print this help",
		run: func(t *Terminal, _ *kernel.Context, _ []string) {
			t.print(helpText())
		}})
	for n := 3; n <= 6; n++ {
		idx := n - 3
		digit := strconv.Itoa(n)
		commands = append(commands,
			command{name: "+" + digit, help: "turn on LED" + digit,
				run: func(t *Terminal, _ *kernel.Context, _ []string) {
					t.setLED(idx, true)
				}},
			command{name: "-" + digit, help: "turn off LED" + digit,
				run: func(t *Terminal, _ *kernel.Context, _ []string) {
					t.setLED(idx, false)
				}},
		)
	}
}

func (t *Terminal) setLED(i int, on bool) {
	if t.cfg.Leds == nil {
		t.print("No LEDs on this board\n")
		return
	}
	t.cfg.Leds.Set(i, on)
}

func helpText() string {
	s := "Available commands:\n"
	for _, c := range commands {
		name := c.name
		if c.alias != "" {
			name += "/" + c.alias
		}
		for len(name) < 8 {
			name += " "
		}
		s += name + "-- " + c.help + "\n"
	}
	return s
}

// exec parses and dispatches one command line.
func (t *Terminal) exec(ctx *kernel.Context, line string) {
	args, err := shlex.Split(line)
	if err != nil {
		t.print("parse error: " + err.Error() + "\n")
		return
	}
	if len(args) == 0 {
		return
	}
	for i := range commands {
		c := &commands[i]
		if args[0] == c.name || (c.alias != "" && args[0] == c.alias) {
			c.run(t, ctx, args)
			return
		}
	}
	t.print("Unknown command\n")
}
