// GoStego - hide short messages in the low bits of images.
//
// Usage:
//
//	gostego hide -i <cover> -o <output> [-m <message> | -f <file>]
//	gostego reveal [-o <file>] <image>
//	gostego capacity [--json] <image>
//	gostego cover -o <file> [options]
//	gostego serve [-p, --port 8080]
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/xob0t/GoStego/clients/server"
	"github.com/xob0t/GoStego/internal/config"
	"github.com/xob0t/GoStego/internal/log"
	"github.com/xob0t/GoStego/pkg/cover"
	"github.com/xob0t/GoStego/pkg/driver"
	"github.com/xob0t/GoStego/pkg/imageio"
	"github.com/xob0t/GoStego/pkg/stego"
)

var (
	errUsage = errors.New("invalid usage")

	// errHelp ends a command after its flag help was printed.
	errHelp = errors.New("help requested")
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	args, level := os.Args[1:], cfg.LogLevel
	if len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose") {
		args, level = args[1:], "debug"
	}
	if err := log.Init(level); err != nil {
		fatal(err)
	}

	code := 0
	if err := run(args, cfg, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		code = exitCode(err)
	}
	log.Sync()
	os.Exit(code)
}

func run(args []string, cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	if err := dispatch(args, cfg, stdin, stdout); !errors.Is(err, errHelp) {
		return err
	}
	return nil
}

func dispatch(args []string, cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return fmt.Errorf("no command given: %w", errUsage)
	}

	switch args[0] {
	case "hide":
		return runHide(args[1:], stdin)
	case "reveal", "extract":
		return runReveal(args[1:], stdout)
	case "capacity", "info":
		return runCapacity(args[1:], stdout)
	case "cover":
		return runCover(args[1:])
	case "serve":
		return runServe(args[1:], cfg)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

func runHide(args []string, stdin io.Reader) error {
	fs := newFlagSet("hide")

	var (
		input       string
		output      string
		message     string
		messageFile string
	)

	fs.StringVar(&input, "i", "", "Cover image path")
	fs.StringVar(&input, "input", "", "Cover image path")
	fs.StringVar(&output, "o", "", "Output image path (.png, .bmp or .tiff)")
	fs.StringVar(&output, "output", "", "Output image path (.png, .bmp or .tiff)")
	fs.StringVar(&message, "m", "", "Message text")
	fs.StringVar(&message, "message", "", "Message text")
	fs.StringVar(&messageFile, "f", "", "Read the message from a file")
	fs.StringVar(&messageFile, "message-file", "", "Read the message from a file")

	if err := parse(fs, args); err != nil {
		return err
	}

	// Positional form: hide <input> <output> [message]
	rest := fs.Args()
	for _, dst := range []*string{&input, &output, &message} {
		if len(rest) > 0 && *dst == "" {
			*dst, rest = rest[0], rest[1:]
		}
	}

	if input == "" {
		return fmt.Errorf("input image is required (-i): %w", errUsage)
	}
	if output == "" {
		return fmt.Errorf("output file is required (-o): %w", errUsage)
	}

	msg, err := readMessage(message, messageFile, stdin)
	if err != nil {
		return err
	}
	if len(msg) == 0 {
		return fmt.Errorf("message cannot be empty: %w", errUsage)
	}

	log.Debug("hiding message", zap.String("input", input), zap.String("output", output), zap.Int("bytes", len(msg)))
	if err := driver.Hide(input, output, msg); err != nil {
		return err
	}
	log.Info("message hidden", zap.String("output", output), zap.Int("bytes", len(msg)))
	return nil
}

// readMessage picks the message from a flag, a file or stdin, in that order.
// One trailing newline is trimmed from stdin.
func readMessage(message, messageFile string, stdin io.Reader) ([]byte, error) {
	switch {
	case message != "":
		return []byte(message), nil
	case messageFile != "":
		data, err := os.ReadFile(messageFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read message: %w", driver.ErrIO, err)
		}
		return data, nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: read stdin: %w", driver.ErrIO, err)
		}
		data = bytes.TrimSuffix(data, []byte("\n"))
		return bytes.TrimSuffix(data, []byte("\r")), nil
	}
}

func runReveal(args []string, stdout io.Writer) error {
	fs := newFlagSet("reveal")

	var input, output string
	fs.StringVar(&input, "i", "", "Stego image path")
	fs.StringVar(&input, "input", "", "Stego image path")
	fs.StringVar(&output, "o", "", "Write the message to a file instead of stdout")
	fs.StringVar(&output, "output", "", "Write the message to a file instead of stdout")

	if err := parse(fs, args); err != nil {
		return err
	}
	if input == "" && fs.NArg() > 0 {
		input = fs.Arg(0)
	}
	if input == "" {
		return fmt.Errorf("input image is required: %w", errUsage)
	}

	msg, err := driver.Reveal(input)
	if err != nil {
		return err
	}
	log.Debug("message revealed", zap.String("input", input), zap.Int("bytes", len(msg)))

	if output != "" {
		if err := os.WriteFile(output, msg, 0644); err != nil {
			return fmt.Errorf("%w: write %s: %w", driver.ErrIO, output, err)
		}
		log.Info("message written", zap.String("output", output), zap.Int("bytes", len(msg)))
		return nil
	}

	if _, err := stdout.Write(msg); err != nil {
		return fmt.Errorf("%w: write stdout: %w", driver.ErrIO, err)
	}
	if isTerminal(stdout) {
		fmt.Fprintln(stdout)
	}
	return nil
}

func runCapacity(args []string, stdout io.Writer) error {
	fs := newFlagSet("capacity")

	var asJSON bool
	fs.BoolVar(&asJSON, "json", false, "Print as JSON")

	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("input image is required: %w", errUsage)
	}

	info, err := driver.Inspect(fs.Arg(0))
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(stdout, "Format:   %s\n", info.Format)
	fmt.Fprintf(stdout, "Size:     %dx%d (%d pixels)\n", info.Width, info.Height, info.Pixels)
	fmt.Fprintf(stdout, "Capacity: %d bytes\n", max(info.Capacity, 0))
	return nil
}

func runCover(args []string) error {
	fs := newFlagSet("cover")

	var (
		output string
		cfg    cover.Config
	)

	fs.StringVar(&output, "o", "", "Output file path (.png, .bmp or .tiff)")
	fs.StringVar(&output, "output", "", "Output file path (.png, .bmp or .tiff)")
	fs.IntVar(&cfg.Width, "w", 1280, "Width in pixels")
	fs.IntVar(&cfg.Width, "width", 1280, "Width in pixels")
	fs.IntVar(&cfg.Height, "height", 720, "Height in pixels")
	fs.StringVar(&cfg.Color, "color", "random", "Background color: hex or 'random'")
	fs.IntVar(&cfg.Grain, "grain", 3, "Per-channel noise amplitude (0 for a flat fill)")
	fs.StringVar(&cfg.Caption, "caption", "", "Centered caption text")
	fs.StringVar(&cfg.TextColor, "text-color", "#ffffff", "Caption color")
	fs.Float64Var(&cfg.FontSize, "font-size", 48, "Caption size in points")
	fs.StringVar(&cfg.FontPath, "font", "", "Custom TTF font path")

	if err := parse(fs, args); err != nil {
		return err
	}
	if output == "" {
		return fmt.Errorf("output file is required (-o): %w", errUsage)
	}

	bounds, err := cover.Generate(output, cfg)
	if err != nil {
		return err
	}
	log.Info("cover created",
		zap.String("output", output),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()),
		zap.Int("capacity", stego.Capacity(bounds)))
	return nil
}

func runServe(args []string, cfg *config.Config) error {
	fs := newFlagSet("serve")

	var port string
	fs.StringVar(&port, "p", cfg.Port, "Port to listen on")
	fs.StringVar(&port, "port", cfg.Port, "Port to listen on")

	if err := parse(fs, args); err != nil {
		return err
	}
	return server.Serve(cfg, port)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// parse maps flag errors onto errUsage and -h onto errHelp.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return errHelp
	}
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), errUsage)
	}
	return nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.Is(err, stego.ErrCapacityExceeded):
		return 3
	case errors.Is(err, stego.ErrUnsupportedImage),
		errors.Is(err, imageio.ErrLossyFormat),
		errors.Is(err, imageio.ErrUnknownFormat):
		return 4
	case errors.Is(err, stego.ErrNoMessageFound):
		return 5
	case errors.Is(err, driver.ErrIO):
		return 6
	case errors.Is(err, stego.ErrAmbiguousMessage):
		return 7
	default:
		return 1
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `GoStego - hide messages in image LSBs (Pure Go)

USAGE:
    gostego [-v] <command> [options]
    gostego hide -i <cover> -o <output> [-m <text> | -f <file>]
    gostego hide <cover> <output> [text]
    gostego reveal [-o <file>] <image>
    gostego capacity [--json] <image>
    gostego cover -o <file> [options]
    gostego serve [--port 8080]

HIDE:
    -i, --input <path>         Cover image (PNG, BMP, TIFF, GIF, JPEG, WebP)
    -o, --output <path>        Output image (.png, .bmp or .tiff only)
    -m, --message <text>       Message text (default: read from stdin)
    -f, --message-file <path>  Read the message bytes from a file

REVEAL:
    -o, --output <path>        Write the message to a file (default: stdout)

COVER:
    -o, --output <path>        Output file (.png, .bmp or .tiff)
    -w, --width <px>           Width in pixels (default: 1280)
    --height <px>              Height in pixels (default: 720)
    --color <hex>              Background color or 'random' (default: random)
    --grain <n>                Per-channel noise amplitude (default: 3)
    --caption <text>           Centered caption
    --text-color <hex>         Caption color (default: #ffffff)
    --font-size <pt>           Caption size (default: 48)
    --font <path>              Custom TTF font

EXIT CODES:
    0 ok, 1 error, 2 usage, 3 message too large, 4 unsupported image or format,
    5 no hidden message, 6 I/O error, 7 message contains the terminator

ENVIRONMENT (.env supported):
    GOSTEGO_LOG_LEVEL, GOSTEGO_PORT, GOSTEGO_OUTPUT_FORMAT, GOSTEGO_MAX_UPLOAD_MB

EXAMPLES:
    gostego cover -o cover.png --caption "Holiday 2024"
    gostego hide -i cover.png -o secret.png -m "meet at dawn"
    echo "meet at dawn" | gostego hide cover.png secret.png
    gostego reveal secret.png
    gostego capacity cover.png
`)
}
