package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/jinjor/finger-synth/src/audio"
	"github.com/jinjor/finger-synth/src/synth"
	"golang.org/x/sync/errgroup"
)

var (
	sampleRate = flag.Int("rate", 44100, "sample rate")
	channels   = flag.Int("channels", 4, "number of channels")
	fingers    = flag.Int("fingers", 5, "fingers per channel")
	presetFile = flag.String("presets", "", "YAML preset library (built-in presets if empty)")
	sampleBank = flag.String("samples", "", "YAML sample bank manifest")
	sockFile   = flag.String("socket", "/tmp/finger-synth.sock", "unix socket for commands and reports")
	midiIn     = flag.String("midi", "", "MIDI IN port name (disabled if empty)")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Lshortfile)
	log.Printf("NumCPU: %v\n", runtime.NumCPU())

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := newSynthesizer(ctx)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	a, err := audio.NewAudio(s)
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	defer a.Close()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signalCh)
		cancel()
	}()
	go func() {
		sig := <-signalCh
		log.Printf("Caught signal %s: shutting down...\n", sig)
		cancel()
	}()
	err = withIPCConnection(ctx, func(conn net.Conn) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return a.Start(ctx)
		})
		g.Go(func() error {
			return receiveCommands(ctx, conn, a.CommandCh)
		})
		g.Go(func() error {
			return sendReports(ctx, conn, a)
		})
		if *midiIn != "" {
			g.Go(func() error {
				for data := range audio.ListenToMidiIn(ctx, *midiIn) {
					a.AddMidiEvent(data)
				}
				log.Println("MIDI IN closed.")
				return nil
			})
		}
		return g.Wait()
	})
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("main() ended.")
}

func newSynthesizer(ctx context.Context) (*synth.Synthesizer, error) {
	cfg := synth.DefaultConfig()
	cfg.SampleRate = float64(*sampleRate)
	cfg.Channels = *channels
	cfg.Fingers = *fingers
	if *presetFile != "" {
		presets, err := synth.LoadPresetFile(*presetFile)
		if err != nil {
			return nil, err
		}
		cfg.Presets = presets
	}
	if *sampleBank != "" {
		bank, err := audio.LoadWavSampleBank(*sampleBank)
		if err != nil {
			return nil, err
		}
		log.Printf("loaded %d sample zones\n", bank.Len())
		cfg.Samples = bank
	}
	return synth.NewSynthesizer(ctx, cfg)
}

func withIPCConnection(ctx context.Context, f func(net.Conn) error) error {
	os.Remove(*sockFile)
	listener, err := new(net.ListenConfig).Listen(ctx, "unix", *sockFile)
	if err != nil {
		return err
	}
	defer func() {
		log.Println("Closing IPC...")
		err := listener.Close()
		if err != nil {
			log.Printf("error while closing listener: %v", err)
		}
		os.Remove(*sockFile)
	}()
	go func() {
		// unblock Accept()
		<-ctx.Done()
		listener.Close()
	}()
	log.Printf("start listening on %s...\n", *sockFile)
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer func() {
		err := conn.Close()
		if err != nil {
			log.Printf("error while closing connection: %v", err)
		}
	}()
	return f(conn)
}

func receiveCommands(ctx context.Context, conn net.Conn, commandCh chan<- []string) error {
	reader := bufio.NewReader(conn)
	var line []byte
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("Connection interrupted")
			break loop
		default:
		}
		next, isPrefix, err := reader.ReadLine()
		if err == io.EOF {
			break loop
		}
		if err != nil {
			return err
		}
		line = append(line, next...)
		if isPrefix {
			continue
		}
		command, err := parseCommand(string(line))
		if err != nil {
			log.Printf("invalid line %q: %v\n", string(line), err)
		} else {
			commandCh <- command
		}
		line = []byte{}
	}
	log.Println("receiveCommands() ended.")
	return nil
}

func parseCommand(line string) ([]string, error) {
	lineStr := strings.Fields(line)
	for i, item := range lineStr {
		escaped, err := url.QueryUnescape(item)
		if err != nil {
			return nil, err
		}
		lineStr[i] = escaped
	}
	return lineStr, nil
}

// sendReports writes "level <peak>" and "fft <magnitudes...>" every frame and
// "state <channel> <json>" whenever a channel's settings changed.
func sendReports(ctx context.Context, conn net.Conn, a *audio.Audio) error {
	t := time.NewTicker(time.Second / 60)
	defer t.Stop()
	numChannels := a.Synthesizer().NumChannels()
loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("sendReports() interrupted")
			break loop
		case <-t.C:
			fft := "fft"
			for _, value := range a.Spectrum() {
				fft += " " + strconv.FormatFloat(value, 'f', 6, 64)
			}
			lines := []string{"level " + strconv.FormatFloat(a.Level(), 'f', 6, 64), fft}
			for ch := 0; ch < numChannels; ch++ {
				key := audio.StateKey(ch)
				if !a.Changes.Has(key) {
					continue
				}
				a.Changes.Delete(key)
				state, err := a.StateJSON(ch)
				if err != nil {
					log.Printf("error: %v\n", err)
					continue
				}
				lines = append(lines, fmt.Sprintf("state %d %s", ch, state))
			}
			if _, err := conn.Write([]byte(strings.Join(lines, "\n") + "\n")); err != nil {
				return err
			}
		}
	}
	log.Println("sendReports() ended.")
	return nil
}
