package stylet

type options struct {
	preset      string
	variantFile string
	seqLen      int
	stride      int
	reference   string
	minWindows  int
	seed        int64
	seedSet     bool
}

// Option configures a Stylet instance.
type Option func(*options)

// WithPreset selects the variant preset the instance starts from:
// "lstm-reg", "resnet-cls", "cnn-attn", "multistage", or "fewshot".
// Default: "lstm-reg".
func WithPreset(name string) Option {
	return func(o *options) { o.preset = name }
}

// WithVariantFile overlays a YAML variant file on the preset, field by
// field. Use this for recipes the presets don't cover.
func WithVariantFile(path string) Option {
	return func(o *options) { o.variantFile = path }
}

// WithSeqLen overrides the preset's window length.
func WithSeqLen(n int) Option {
	return func(o *options) { o.seqLen = n }
}

// WithStride overrides the preset's window stride.
func WithStride(n int) Option {
	return func(o *options) { o.stride = n }
}

// WithReference overrides where the target is read: "end" or "center".
func WithReference(ref string) Option {
	return func(o *options) { o.reference = ref }
}

// WithMinWindows overrides the per-file usable-window floor. Files below
// it fail with ErrTooFewWindows.
func WithMinWindows(n int) Option {
	return func(o *options) { o.minWindows = n }
}

// WithSeed overrides the preset's random seed for the label floor noise.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed; o.seedSet = true }
}

func defaultOptions() options {
	return options{preset: "lstm-reg"}
}
