package gerber

import (
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Parse reads an RS-274X drawing. All coordinates and dimensions in the
// returned File are millimetres regardless of the drawing's unit mode.
func Parse(r io.Reader) (*File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	p := &parser{
		src:       string(src),
		line:      1,
		scale:     1, // assume metric until told otherwise
		intDigits: 2,
		decDigits: 4,
		apertures: make(map[int]*Aperture),
		macros:    make(map[string]*Macro),
		file:      &File{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.file, nil
}

type parser struct {
	src  string
	pos  int
	line int

	scale      float64 // file units -> mm
	intDigits  int
	decDigits  int
	trailingZO bool // trailing zero omission (%FST)

	apertures map[int]*Aperture
	macros    map[string]*Macro

	current *Aperture
	cur     r2.Vec
	mode    int // interpolation: 1 linear, 2 cw, 3 ccw
	lastOp  int // modal operation code (1, 2, 3)
	index   int // statement counter

	file *File
}

func (p *parser) run() error {
	for {
		tok, ext, ok := p.next()
		if !ok {
			return nil
		}
		var err error
		if ext {
			err = p.parameter(tok)
		} else {
			err = p.word(tok)
		}
		if err != nil {
			return err
		}
	}
}

// next returns the next statement. Extended parameters (%...%) are
// returned whole with ext set; plain words are returned without their
// terminating '*'.
func (p *parser) next() (tok string, ext, ok bool) {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '\n':
			p.line++
			p.pos++
		case '\r', ' ', '\t':
			p.pos++
		case '%':
			end := strings.IndexByte(p.src[p.pos+1:], '%')
			if end < 0 {
				end = len(p.src) - p.pos - 1
			}
			tok = p.src[p.pos+1 : p.pos+1+end]
			p.pos += end + 2
			p.line += strings.Count(tok, "\n")
			return strings.TrimSpace(tok), true, true
		default:
			end := strings.IndexByte(p.src[p.pos:], '*')
			if end < 0 {
				end = len(p.src) - p.pos
			}
			tok = p.src[p.pos : p.pos+end]
			p.pos += end + 1
			p.line += strings.Count(tok, "\n")
			if t := strings.TrimSpace(tok); t != "" {
				return t, false, true
			}
		}
	}
	return "", false, false
}

// parameter handles one %...% extended parameter block.
func (p *parser) parameter(block string) error {
	body := strings.TrimSuffix(block, "*")
	switch {
	case strings.HasPrefix(body, "FS"):
		return p.formatSpec(body)
	case strings.HasPrefix(body, "MOIN"):
		p.scale = 25.4
	case strings.HasPrefix(body, "MOMM"):
		p.scale = 1
	case strings.HasPrefix(body, "ADD"):
		return p.apertureDef(body[2:])
	case strings.HasPrefix(body, "AM"):
		return p.macroDef(block)
	case strings.HasPrefix(body, "LPD"):
		// dark polarity is the default
	case strings.HasPrefix(body, "LPC"):
		return &UnsupportedPrimitiveError{Line: p.line, Primitive: "clear polarity layer"}
	case strings.HasPrefix(body, "SR"), strings.HasPrefix(body, "MI"):
		return &UnsupportedPrimitiveError{Line: p.line, Primitive: body[:2] + " transform"}
	case strings.HasPrefix(body, "IN"), strings.HasPrefix(body, "IP"),
		strings.HasPrefix(body, "LN"), strings.HasPrefix(body, "AS"),
		strings.HasPrefix(body, "OF"), strings.HasPrefix(body, "SF"):
		// image name/polarity/layer name and identity transforms
	}
	return nil
}

// formatSpec parses %FSLAX25Y25*: zero omission, absolute notation and
// the coordinate digit format.
func (p *parser) formatSpec(body string) error {
	s := body[2:]
	for len(s) > 0 && (s[0] == 'L' || s[0] == 'T' || s[0] == 'A' || s[0] == 'I' || s[0] == 'D') {
		if s[0] == 'T' {
			p.trailingZO = true
		}
		if s[0] == 'I' {
			return &UnsupportedPrimitiveError{Line: p.line, Primitive: "incremental coordinates"}
		}
		s = s[1:]
	}
	x := strings.IndexByte(s, 'X')
	y := strings.IndexByte(s, 'Y')
	if x < 0 || y < 0 || y+3 > len(s) {
		return parseErrf(p.line, "malformed format specification %q", body)
	}
	xi, err1 := strconv.Atoi(s[x+1 : x+2])
	xd, err2 := strconv.Atoi(s[x+2 : x+3])
	if err1 != nil || err2 != nil {
		return parseErrf(p.line, "malformed format specification %q", body)
	}
	p.intDigits, p.decDigits = xi, xd
	return nil
}

// apertureDef parses the body of an %ADD parameter, e.g. "D10C,0.152".
func (p *parser) apertureDef(s string) error {
	if len(s) < 2 || s[0] != 'D' {
		return parseErrf(p.line, "malformed aperture definition %q", s)
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	code, err := strconv.Atoi(s[1:i])
	if err != nil || code < 10 {
		return parseErrf(p.line, "bad aperture code in %q", s)
	}
	name, modstr, _ := strings.Cut(s[i:], ",")
	var mods []float64
	if modstr != "" {
		for _, f := range strings.Split(modstr, "X") {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return parseErrf(p.line, "bad aperture modifier %q", f)
			}
			mods = append(mods, v)
		}
	}

	ap := &Aperture{Code: code}
	switch name {
	case "C":
		if len(mods) < 1 {
			return parseErrf(p.line, "circle aperture D%d missing diameter", code)
		}
		ap.Shape = ShapeCircle
		ap.Diameter = mods[0] * p.scale
	case "R", "O":
		if len(mods) < 2 {
			return parseErrf(p.line, "aperture D%d missing dimensions", code)
		}
		ap.Shape = ShapeRectangle
		if name == "O" {
			ap.Shape = ShapeObround
		}
		ap.XSize = mods[0] * p.scale
		ap.YSize = mods[1] * p.scale
	case "P":
		if len(mods) < 2 {
			return parseErrf(p.line, "polygon aperture D%d missing modifiers", code)
		}
		ap.Shape = ShapePolygon
		ap.Diameter = mods[0] * p.scale
		ap.Vertices = int(mods[1])
		if len(mods) > 2 {
			ap.Rotation = mods[2]
		}
	default:
		m, ok := p.macros[name]
		if !ok {
			return &UnsupportedPrimitiveError{Line: p.line, Primitive: "aperture " + name}
		}
		ap.Shape = ShapeMacro
		ap.Macro = m
	}
	p.apertures[code] = ap
	return nil
}

// macroDef parses an %AM block: the macro name followed by '*' separated
// primitives. Only fixed numeric modifiers are supported; macros using
// variables or expressions have no normalized representation.
func (p *parser) macroDef(block string) error {
	parts := strings.Split(strings.TrimSuffix(block, "*"), "*")
	name := strings.TrimPrefix(strings.TrimSpace(parts[0]), "AM")
	m := &Macro{Name: name}
	for _, prim := range parts[1:] {
		prim = strings.TrimSpace(prim)
		if prim == "" {
			continue
		}
		if strings.ContainsAny(prim, "$=") {
			return &UnsupportedPrimitiveError{Line: p.line, Primitive: "macro variable in " + name}
		}
		fields := strings.Split(prim, ",")
		code, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return parseErrf(p.line, "bad macro primitive %q", prim)
		}
		if code == 0 {
			continue // comment primitive
		}
		mods := make([]float64, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return parseErrf(p.line, "bad macro modifier %q", f)
			}
			mods = append(mods, v)
		}
		kind := MacroPrimitiveKind(code)
		switch kind {
		case MacroCircle, MacroVectorLine, MacroCenterLine, MacroOutline:
			p.scaleMacroMods(kind, mods)
		default:
			return &UnsupportedPrimitiveError{Line: p.line, Primitive: "macro primitive code " + fields[0]}
		}
		m.Primitives = append(m.Primitives, MacroPrimitive{Kind: kind, Modifiers: mods})
	}
	p.macros[name] = m
	return nil
}

// scaleMacroMods converts the dimension modifiers of a macro primitive
// to mm, leaving exposure flags, counts and rotation angles alone.
func (p *parser) scaleMacroMods(kind MacroPrimitiveKind, mods []float64) {
	if p.scale == 1 {
		return
	}
	switch kind {
	case MacroCircle: // exposure, diameter, x, y [, rot]
		for i := 1; i <= 3 && i < len(mods); i++ {
			mods[i] *= p.scale
		}
	case MacroVectorLine: // exposure, width, x1, y1, x2, y2, rot
		for i := 1; i <= 5 && i < len(mods); i++ {
			mods[i] *= p.scale
		}
	case MacroCenterLine: // exposure, width, height, x, y, rot
		for i := 1; i <= 4 && i < len(mods); i++ {
			mods[i] *= p.scale
		}
	case MacroOutline: // exposure, n, x0, y0, ... xn, yn, rot
		for i := 2; i < len(mods)-1; i++ {
			mods[i] *= p.scale
		}
	}
}

// word handles one '*' terminated function code or coordinate word.
func (p *parser) word(w string) error {
	switch {
	case strings.HasPrefix(w, "G04"), strings.HasPrefix(w, "G4 "):
		return nil // comment
	case w == "G36":
		return &UnsupportedPrimitiveError{Line: p.line, Primitive: "region (G36)"}
	case w == "G37":
		return nil
	case w == "G70":
		p.scale = 25.4
		return nil
	case w == "G71":
		p.scale = 1
		return nil
	case w == "G74", w == "G75":
		// arcs are interpreted with signed center offsets either way
		return nil
	case w == "G01", w == "G1":
		p.mode = 1
		return nil
	case w == "G02", w == "G2":
		p.mode = 2
		return nil
	case w == "G03", w == "G3":
		p.mode = 3
		return nil
	case w == "M00", w == "M01", w == "M02":
		return nil
	}
	// G54D10 and bare D10 select an aperture; D01/D02/D03 without
	// coordinates operate at the current position.
	w = strings.TrimPrefix(w, "G54")
	if strings.HasPrefix(w, "D") {
		return p.opCode(w[1:], p.cur, r2.Vec{})
	}
	if strings.HasPrefix(w, "G01") || strings.HasPrefix(w, "G1") ||
		strings.HasPrefix(w, "G02") || strings.HasPrefix(w, "G2") ||
		strings.HasPrefix(w, "G03") || strings.HasPrefix(w, "G3") {
		// interpolation mode prefixed to a coordinate word
		if strings.HasPrefix(w, "G0") {
			p.mode = int(w[2] - '0')
			w = w[3:]
		} else {
			p.mode = int(w[1] - '0')
			w = w[2:]
		}
	}
	return p.coordinate(w)
}

// coordinate parses X/Y/I/J fields with an optional trailing D-code and
// executes the resulting operation.
func (p *parser) coordinate(w string) error {
	target := p.cur
	var offset r2.Vec
	op := ""
	s := w
	for len(s) > 0 {
		c := s[0]
		s = s[1:]
		j := 0
		for j < len(s) && (s[j] == '+' || s[j] == '-' || (s[j] >= '0' && s[j] <= '9') || s[j] == '.') {
			j++
		}
		field := s[:j]
		s = s[j:]
		switch c {
		case 'X':
			v, err := p.coordValue(field)
			if err != nil {
				return err
			}
			target.X = v
		case 'Y':
			v, err := p.coordValue(field)
			if err != nil {
				return err
			}
			target.Y = v
		case 'I':
			v, err := p.coordValue(field)
			if err != nil {
				return err
			}
			offset.X = v
		case 'J':
			v, err := p.coordValue(field)
			if err != nil {
				return err
			}
			offset.Y = v
		case 'D':
			op = field
		default:
			return parseErrf(p.line, "unexpected character %q in %q", c, w)
		}
	}
	if op == "" {
		if p.lastOp == 0 {
			return parseErrf(p.line, "coordinate %q without operation code", w)
		}
		op = strconv.Itoa(p.lastOp)
	}
	return p.opCode(op, target, offset)
}

// coordValue decodes a coordinate field per the format specification:
// implicit decimal point, leading or trailing zero omission.
func (p *parser) coordValue(field string) (float64, error) {
	if field == "" {
		return 0, parseErrf(p.line, "empty coordinate value")
	}
	if strings.Contains(field, ".") {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, parseErrf(p.line, "bad coordinate %q", field)
		}
		return v * p.scale, nil
	}
	sign := 1.0
	digits := field
	if digits[0] == '+' || digits[0] == '-' {
		if digits[0] == '-' {
			sign = -1
		}
		digits = digits[1:]
	}
	if p.trailingZO {
		for len(digits) < p.intDigits+p.decDigits {
			digits += "0"
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, parseErrf(p.line, "bad coordinate %q", field)
	}
	return sign * float64(n) / math.Pow10(p.decDigits) * p.scale, nil
}

// opCode executes a D operation: aperture select (>=10), draw, move or
// flash.
func (p *parser) opCode(op string, target, offset r2.Vec) error {
	code, err := strconv.Atoi(op)
	if err != nil {
		return parseErrf(p.line, "bad operation code D%s", op)
	}
	if code >= 10 {
		ap, ok := p.apertures[code]
		if !ok {
			return parseErrf(p.line, "aperture D%d selected before definition", code)
		}
		p.current = ap
		return nil
	}
	p.index++
	switch code {
	case 1:
		d := Draw{
			Index:    p.index,
			Start:    p.cur,
			End:      target,
			Aperture: p.current,
		}
		if p.mode == 2 || p.mode == 3 {
			d.Arc = true
			d.Center = r2.Add(p.cur, offset)
			d.Clockwise = p.mode == 2
		}
		p.file.Draws = append(p.file.Draws, d)
		p.cur = target
	case 2:
		p.cur = target
	case 3:
		if p.current == nil {
			return parseErrf(p.line, "flash before aperture selection")
		}
		p.cur = target
		p.file.Flashes = append(p.file.Flashes, Flash{Index: p.index, Pos: target, Aperture: p.current})
	default:
		return parseErrf(p.line, "unknown operation code D%d", code)
	}
	p.lastOp = code
	return nil
}
