package sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// frameRegex splits a filename into prefix, separator, frame digits, and
// extension. The digit run must immediately precede the final extension.
var frameRegex = regexp.MustCompile(`(?i)(.*)([._-])(\d+)\.([^.]+)$`)

// FrameSequence describes one detected image sequence.
type FrameSequence struct {
	// TemplatePath is the sequence path with the frame digits replaced by a
	// placeholder token (printf-style zero-padded field by default).
	TemplatePath string
	// Frames holds the frame numbers as they appeared in the filenames, in
	// directory listing order. Values keep their original zero padding.
	Frames []string
}

// First returns the lowest frame number in the sequence.
func (s FrameSequence) First() int {
	first, _ := s.bounds()
	return first
}

// Last returns the highest frame number in the sequence.
func (s FrameSequence) Last() int {
	_, last := s.bounds()
	return last
}

func (s FrameSequence) bounds() (int, int) {
	if len(s.Frames) == 0 {
		return 0, 0
	}
	first, _ := strconv.Atoi(s.Frames[0])
	last := first
	for _, frame := range s.Frames[1:] {
		n, err := strconv.Atoi(frame)
		if err != nil {
			continue
		}
		if n < first {
			first = n
		}
		if n > last {
			last = n
		}
	}
	return first, last
}

type options struct {
	extensions  []string
	placeholder string
	strict      bool
}

// Option adjusts detector behaviour.
type Option func(*options)

// WithExtensions restricts detection to the given extensions (matched
// exactly, without the leading dot).
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		o.extensions = append(o.extensions, exts...)
	}
}

// WithPlaceholder substitutes the supplied literal token for the frame
// digits instead of a zero-padded printf field.
func WithPlaceholder(token string) Option {
	return func(o *options) {
		o.placeholder = token
	}
}

// WithStrictFiltering applies the extension allow-list to every file rather
// than only the first file seen for a group. The historical behaviour checks
// extensions only when a group key is first sighted; later members join the
// group unconditionally. Strict mode filters each member.
func WithStrictFiltering() Option {
	return func(o *options) {
		o.strict = true
	}
}

type group struct {
	template string
	frames   []string
}

// Detect scans dir (non-recursive) and returns one FrameSequence per
// distinct prefix+extension pair found among frame-numbered filenames.
// Files without a trailing digit run before the extension are ignored.
// A single matching file yields a one-frame sequence.
func Detect(dir string, opts ...Option) ([]FrameSequence, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list directory %s: %w", dir, err)
	}

	groups := make(map[string]*group)
	var order []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		match := frameRegex.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		prefix, sep, frame, ext := match[1], match[2], match[3], match[4]

		// Grouping key deliberately drops the separator, so shot.1001.exr
		// and shot_1002.exr land in the same group.
		key := prefix + "." + ext

		if grp, ok := groups[key]; ok {
			if o.strict && !extensionAllowed(o.extensions, ext) {
				continue
			}
			grp.frames = append(grp.frames, frame)
			continue
		}

		if !extensionAllowed(o.extensions, ext) {
			continue
		}

		placeholder := o.placeholder
		if placeholder == "" {
			placeholder = fmt.Sprintf("%%0%dd", len(frame))
		}

		groups[key] = &group{
			template: filepath.Join(dir, prefix+sep+placeholder+"."+ext),
			frames:   []string{frame},
		}
		order = append(order, key)
	}

	sequences := make([]FrameSequence, 0, len(order))
	for _, key := range order {
		grp := groups[key]
		sequences = append(sequences, FrameSequence{
			TemplatePath: grp.template,
			Frames:       grp.frames,
		})
	}
	return sequences, nil
}

func extensionAllowed(allowed []string, ext string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if candidate == ext {
			return true
		}
	}
	return false
}
