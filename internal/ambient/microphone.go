package ambient

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/gopxl/beep/wav"
)

const (
	// captureRate is the sample rate requested from the capture tool.
	captureRate = 16000

	// windowFrames is the number of frames folded into one Sample
	// (64ms at captureRate).
	windowFrames = 1024
)

// lookPath is replaced in tests.
var lookPath = exec.LookPath

// Backend describes an external capture tool that writes WAV to stdout.
type Backend struct {
	Name string
	Path string
	Args []string
}

// DetectBackend searches for a capture tool.
// Priority: arecord (ALSA) > rec (SoX).
func DetectBackend() (*Backend, error) {
	rate := strconv.Itoa(captureRate)

	if path, err := lookPath("arecord"); err == nil {
		return &Backend{
			Name: "arecord",
			Path: path,
			Args: []string{"-q", "-t", "wav", "-f", "S16_LE", "-c", "1", "-r", rate, "-"},
		}, nil
	}

	if path, err := lookPath("rec"); err == nil {
		return &Backend{
			Name: "sox",
			Path: path,
			Args: []string{"-q", "-t", "wav", "-b", "16", "-c", "1", "-r", rate, "-"},
		}, nil
	}

	return nil, fmt.Errorf("%w: no capture tool found (install alsa-utils or sox)", ErrDeviceUnavailable)
}

// Open picks the source for the card: the microphone when sensing is
// enabled and a capture tool exists, otherwise a source that reports why
// not.
func Open(enabled bool) Source {
	if !enabled {
		return Disabled{}
	}
	b, err := DetectBackend()
	if err != nil {
		return Unavailable{Err: err}
	}
	return NewMicrophone(b)
}

// Microphone is the device-backed Source.
type Microphone struct {
	open func(ctx context.Context) (io.ReadCloser, error)
	now  func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	closer io.Closer

	errMu sync.Mutex
	err   error
}

// NewMicrophone creates a source reading from the given backend.
func NewMicrophone(b *Backend) *Microphone {
	return &Microphone{
		open: commandOpener(b),
		now:  time.Now,
	}
}

func commandOpener(b *Backend) func(ctx context.Context) (io.ReadCloser, error) {
	return func(ctx context.Context) (io.ReadCloser, error) {
		cmd := exec.CommandContext(ctx, b.Path, b.Args...)
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("%w: %s pipe: %w", ErrDeviceUnavailable, b.Name, err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("%w: starting %s: %w", ErrDeviceUnavailable, b.Name, err)
		}
		return &process{ReadCloser: stdout, cmd: cmd}, nil
	}
}

// process ties the capture tool's lifetime to its stdout.
type process struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *process) Close() error {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	// Wait closes stdout.
	_ = p.cmd.Wait()
	return nil
}

// Start launches the capture tool and returns at once. The WAV header is
// decoded by the reader; a stream that never becomes valid closes the
// channel without samples and Err reports why.
func (m *Microphone) Start(ctx context.Context) (<-chan Sample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return nil, fmt.Errorf("microphone already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	rc, err := m.open(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan Sample)
	m.cancel = cancel
	m.done = make(chan struct{})
	m.closer = rc
	m.setErr(nil)

	go m.read(ctx, rc, out)
	return out, nil
}

// Err returns the reason the last stream ended early, if any.
func (m *Microphone) Err() error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	return m.err
}

func (m *Microphone) setErr(err error) {
	m.errMu.Lock()
	m.err = err
	m.errMu.Unlock()
}

// read decodes the capture stream and folds its frames into samples until
// the stream ends or ctx is cancelled.
func (m *Microphone) read(ctx context.Context, r io.Reader, out chan<- Sample) {
	defer close(m.done)
	defer close(out)

	stream, format, err := wav.Decode(r)
	if err != nil {
		if ctx.Err() == nil {
			m.setErr(fmt.Errorf("%w: decoding capture stream: %w", ErrDeviceUnavailable, err))
		}
		return
	}

	window := format.SampleRate.N(time.Duration(windowFrames) * time.Second / captureRate)
	if window <= 0 {
		window = windowFrames
	}
	gain := decoderGain(format.Precision)

	buf := make([][2]float64, window)
	for {
		n, ok := stream.Stream(buf)
		if n > 0 {
			frames := buf[:n]
			if gain != 1 {
				for i := range frames {
					frames[i][0] *= gain
					frames[i][1] *= gain
				}
			}
			select {
			case out <- Sample{Level: Level(frames), At: m.now()}:
			case <-ctx.Done():
				return
			}
		}
		if !ok {
			if err := stream.Err(); err != nil && ctx.Err() == nil {
				m.setErr(fmt.Errorf("%w: reading capture stream: %w", ErrDeviceUnavailable, err))
			}
			return
		}
	}
}

// decoderGain undoes the wav decoder's scaling. It divides 16 and 24 bit
// PCM by the full unsigned range, so full scale decodes to ±0.5.
func decoderGain(precision int) float64 {
	switch precision {
	case 2, 3:
		return 2
	}
	return 1
}

// Stop kills the capture tool and waits for the reader to finish.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel == nil {
		return nil
	}
	m.cancel()
	// Closing the reader unblocks a Stream call stuck on a pipe read.
	err := m.closer.Close()
	<-m.done

	m.cancel = nil
	m.closer = nil
	return err
}
