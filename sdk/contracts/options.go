package contracts

// ClientOptions defines the configuration options for a session.
type ClientOptions struct {
	Logger        Logger        // Logger for connection and protocol events.
	LogLevel      LogLevel      // Level of logging to use.
	LogFilePath   string        // File path for logging if file logging is enabled.
	TransportKind TransportKind // Backend to construct when Transport is nil.
	Transport     Transport     // Pre-built backend; takes precedence over TransportKind.
	Protocol      Protocol      // Control surface used by the session.
	Model         ModelID       // Model ID carried in DT1 messages.
	InboundBuffer int           // Capacity of the inbound message channel.
	ClientName    string        // Client name registered with the backend, where supported.
}

// Option is a function that modifies ClientOptions.
type Option func(*ClientOptions)

// WithLogger sets the logger for the session.
func WithLogger(l Logger) Option {
	return func(opts *ClientOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the session.
func WithLogLevel(level LogLevel) Option {
	return func(opts *ClientOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile directs log output to the given file.
func WithLogFile(path string) Option {
	return func(opts *ClientOptions) {
		opts.LogFilePath = path
	}
}

// WithTransport selects the backend to construct.
func WithTransport(kind TransportKind) Option {
	return func(opts *ClientOptions) {
		opts.TransportKind = kind
	}
}

// WithTransportInstance supplies an already constructed backend, such as a fake.
func WithTransportInstance(t Transport) Option {
	return func(opts *ClientOptions) {
		opts.Transport = t
	}
}

// WithProtocol selects the control surface.
func WithProtocol(p Protocol) Option {
	return func(opts *ClientOptions) {
		opts.Protocol = p
	}
}

// WithModel sets the model ID used for DT1 messages.
func WithModel(m ModelID) Option {
	return func(opts *ClientOptions) {
		opts.Model = m
	}
}

// WithInboundBuffer sets the capacity of the inbound message channel.
func WithInboundBuffer(n int) Option {
	return func(opts *ClientOptions) {
		opts.InboundBuffer = n
	}
}

// WithClientName sets the name the backend registers with the OS MIDI service.
func WithClientName(name string) Option {
	return func(opts *ClientOptions) {
		opts.ClientName = name
	}
}
