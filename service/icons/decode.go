package icons

// Decode detects the container format of buf and selects a payload using the
// default options. The hint is a file name, path or URL of the buffer and may
// be empty.
func Decode(buf []byte, hint string) (*SelectedIcon, error) {
	return DecodeWithOptions(buf, hint, Options{})
}

// DecodeWithOptions detects the container format of buf and selects a
// payload.
func DecodeWithOptions(buf []byte, hint string, opts Options) (*SelectedIcon, error) {
	format, err := DetectFormat(buf, hint, opts.StrictSniff)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatICNS:
		return DecodeICNS(buf, opts.Policy)
	case FormatICO:
		return DecodeICO(buf)
	default:
		return nil, newDecodeError(format, 0, ErrUnsupportedFormat, "", nil)
	}
}
