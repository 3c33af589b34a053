package xmlcore

// ============================================================================
// CONFIGURATION AND OPTIONS
// ============================================================================
//
// Mirrors the teacher's config/Option pattern (xml/xml.go): a private
// config struct built up by defaultConfig(), mutated by a list of
// functional Options passed to NewParser.

// ParamEntityParsing names the modes of spec.md §6's
// set_param_entity_parsing. The parser stores the selected mode but no
// parsing step reads it: parameter entity references are not expanded in
// any mode.
type ParamEntityParsing int

const (
	ParamEntityParsingNever ParamEntityParsing = iota
	ParamEntityParsingUnlessStandalone
	ParamEntityParsingAlways
)

type config struct {
	encodingName     string
	nsSeparator      rune // 0 disables namespace processing
	returnNSTriplet  bool
	paramEntityMode  ParamEntityParsing
	useForeignDTD    bool
	activationBytes  int64
	maxAmplification float64
	logger           Logger
	unknownEncodings map[string]*unknownEncoding
	keepInputContext bool
}

// Option mutates a config at NewParser time.
type Option func(*config)

func defaultConfig() *config {
	return &config{
		nsSeparator:      0,
		paramEntityMode:  ParamEntityParsingNever,
		activationBytes:  0, // 0 means "use internal/accounting's default"
		maxAmplification: 0,
		unknownEncodings: make(map[string]*unknownEncoding),
	}
}

// WithEncoding pins the protocol-declared encoding name (e.g. from a
// Content-Type header), equivalent to the name argument to create().
func WithEncoding(name string) Option {
	return func(c *config) { c.encodingName = name }
}

// WithNamespaces turns on Namespaces-in-XML processing and selects the
// separator character rewritten names use between URI and local name,
// equivalent to create_ns(sep).
func WithNamespaces(separator rune) Option {
	return func(c *config) { c.nsSeparator = separator }
}

// WithNamespaceTriplets additionally appends the originating prefix after
// the separator-joined URI/local pair (set_return_ns_triplet).
func WithNamespaceTriplets() Option {
	return func(c *config) { c.returnNSTriplet = true }
}

// WithParamEntityParsing sets the stored parameter-entity parsing mode; see
// ParamEntityParsing.
func WithParamEntityParsing(mode ParamEntityParsing) Option {
	return func(c *config) { c.paramEntityMode = mode }
}

// WithForeignDTD sets the use_foreign_dtd flag. The flag is stored only: no
// parsing step reads it, so no external-entity-ref call is made for an
// implied foreign DTD.
func WithForeignDTD() Option {
	return func(c *config) { c.useForeignDTD = true }
}

// WithAmplificationLimit overrides the DoS guard's activation threshold and
// maximum amplification ratio (root parsers only; see accounting.go).
func WithAmplificationLimit(activationBytes int64, maxAmplification float64) Option {
	return func(c *config) {
		c.activationBytes = activationBytes
		c.maxAmplification = maxAmplification
	}
}

// WithLogger installs a diagnostic sink for internal debug output,
// satisfying the minimal Logger interface in log.go, the same
// minimal-surface approach the teacher takes with EnableLegacyCharsets and
// similar single-purpose Options rather than a monolithic settings bag.
func WithLogger(l Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithInputContextPreservation enables GetInputContext, letting a caller
// recover the raw input buffer surrounding the current scan position from
// within a handler (spec.md §6's get_input_context). Off by default since it
// pins the current input frame's backing array live for the query.
func WithInputContextPreservation() Option {
	return func(c *config) { c.keepInputContext = true }
}

// WithUnknownEncoding registers a caller-supplied decoding table for a
// named encoding not built in to the module (US-ASCII, UTF-8, UTF-16
// BE/LE, ISO-8859-1), per spec.md §4.8's unknown-encoding handler.
func WithUnknownEncoding(name string, table [256]int32, convert func([]byte) (rune, int)) Option {
	return func(c *config) {
		c.unknownEncodings[name] = &unknownEncoding{table: table, convert: convert}
	}
}
