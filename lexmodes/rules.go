// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package lexmodes

import "shfront/token"

// Rule is one entry of a per-mode match table: a literal byte sequence
// paired with the token id it produces. Extglob and regex bodies are not
// matched by rules; the line lexer scans them directly.
type Rule struct {
	Literal string // non-empty for a literal rule
	ID      token.ID
}

// Table is an ordered list of rules for one lex mode. Match always
// picks the LONGEST literal that matches at the given position; ties
// (same length) go to the rule declared earlier.
type Table []Rule

// Match finds the longest rule in t whose Literal is a prefix of
// line[pos:], returning its token id and the position just past the
// match. ok is false if no rule in the table matches (the caller falls
// back to bare-operator or literal scanning).
func (t Table) Match(line string, pos int) (id token.ID, end int, ok bool) {
	bestLen := -1
	for _, r := range t {
		n := len(r.Literal)
		if n == 0 || pos+n > len(line) {
			continue
		}
		if line[pos:pos+n] != r.Literal {
			continue
		}
		if n > bestLen {
			bestLen = n
			id = r.ID
			ok = true
		}
	}
	if ok {
		end = pos + bestLen
	}
	return
}

// ShCommandTable is the operator table consulted in ShCommand mode
//. Grounded rule-for-rule on the branch order of
// syntax/lexer.go's regToken: bash-only extensions (&>, |&, <<<, $[,
// <(, >(, ;;&, ;&) are listed before their POSIX-subset prefixes so the
// longest match always wins regardless of the PosixConformant flag; the
// caller filters bash-only ids back out in POSIX mode (mirroring
// regToken's own p.bash() guards).
var ShCommandTable = Table{
	// Single/double/back-quote and bare '$' are dispatched directly by
	// readShOperatorOrWord (they need a dedicated token id each, not a
	// shared Illegal placeholder) before this table is ever consulted
	// for them; the multi-byte '$'-prefixed forms below are still
	// matched here since they pick one of several closing delimiters.
	{"&&", token.AndAnd},
	{"&>>", token.AppAll},
	{"&>", token.RdrAll},
	{"&", token.Amp},
	{"||", token.OrOr},
	{"|&", token.PipeAmp},
	{"|", token.Pipe},
	{"$'", token.DollSQ},
	{`$"`, token.DollDQ},
	{"${", token.LeftBrace},
	{"$[", token.DollBrack},
	{"$((", token.DollDParen},
	{"$(", token.DollParen},
	{"((", token.DLparen},
	{"(", token.Lparen},
	{")", token.Rparen},
	{";;&", token.DSemiFall},
	{";;", token.DSemi},
	{";&", token.SemiFall},
	{";", token.Semi},
	{"<<-", token.DLessDash},
	{"<<<", token.TLess},
	{"<<", token.DLess},
	{"<>", token.LessGreat},
	{"<&", token.LessAnd},
	{"<(", token.CmdIn},
	{"<", token.Less},
	{">>", token.DGreat},
	{">&", token.GreatAnd},
	{">|", token.Clobber},
	{">(", token.CmdOut},
	{">", token.Great},
}

// ParamOpTable is consulted inside VSub_2 once a bracket/prefix op has
// already been stripped; grounded on syntax/lexer.go's paramToken.
var ParamOpTable = Table{
	{"}", token.Rbrace},
	{"!", token.VBang},
	{":+", token.VColonPlus},
	{":-", token.VColonMinus},
	{":?", token.VColonQuest},
	{":=", token.VColonEq},
	{":", token.VColon},
	{"+", token.VPlus},
	{"-", token.VMinus},
	{"?", token.VQuest},
	{"=", token.VEq},
	{"%%", token.VDPercent},
	{"%", token.VPercent},
	{"##", token.VDHash},
	{"#", token.VHashOp},
	{"[", token.ALbrack},
	{"]", token.ARbrack},
	{"^^", token.VDCaret},
	{"^", token.VCaret},
	{",,", token.VDComma},
	{",", token.VComma},
	{"/", token.VSlash},
}

// ArithTable is consulted in Arith mode; grounded on arithmToken.
var ArithTable = Table{
	{"!=", token.ANeq},
	{"!", token.ANot},
	{"==", token.AEql},
	{"=", token.AAssign},
	{"&&", token.AAnd},
	{"&=", token.AAndAssign},
	{"&", token.AAnd},
	{"||", token.AOr},
	{"|=", token.AOrAssign},
	{"|", token.AOr},
	{"++", token.AInc},
	{"+=", token.APlusAssign},
	{"+", token.APlus},
	{"--", token.ADec},
	{"-=", token.AMinusAssign},
	{"-", token.AMinus},
	{"**", token.ADStar},
	{"*=", token.AStarAssign},
	{"*", token.AStar},
	{"/=", token.ASlashAssign},
	{"/", token.ASlash},
	{"%=", token.APercentAssign},
	{"%", token.APercent},
	{"^=", token.AXorAssign},
	{"^", token.ACaret},
	{"<<=", token.AShlAssign},
	{"<<", token.AShl},
	{"<=", token.ALeq},
	{"<", token.ALss},
	{">>=", token.AShrAssign},
	{">>", token.AShr},
	{">=", token.AGeq},
	{">", token.AGtr},
	{"~", token.ATilde},
	{"?", token.AQuest},
	{":", token.AColon},
	{",", token.AComma},
	{";", token.Semi},
	{"(", token.Lparen},
	{")", token.Rparen},
	{"[", token.ALbrack},
	{"]", token.ARbrack},
}

// TestUnaryWords and TestBinaryWords are the literal-word tables
// consulted inside [[ ]] / TestExpr mode; these match whole words, not
// operator characters, grounded on the T* token set of
// syntax/tokens.go.
var TestUnaryWords = map[string]token.ID{
	"-e": token.TFileExists, "-f": token.TRegFile, "-d": token.TDir,
	"-c": token.TCharDev, "-b": token.TBlockDev, "-p": token.TNamedPipe,
	"-S": token.TSocket, "-L": token.TSymlink, "-g": token.TSetGID,
	"-u": token.TSetUID, "-r": token.TReadable, "-w": token.TWritable,
	"-x": token.TExecutable, "-s": token.TNonEmpty, "-t": token.TTerminal,
	"-z": token.TEmptyStr, "-n": token.TNonEmptyStr, "-o": token.TOptSet,
	"-v": token.TVarSet, "-R": token.TNameRef,
}

var TestBinaryWords = map[string]token.ID{
	"-eq": token.TEq, "-ne": token.TNe, "-lt": token.TLt, "-gt": token.TGt,
	"-le": token.TLe, "-ge": token.TGe, "-nt": token.TNewer,
	"-ot": token.TOlder, "-ef": token.TSameFile,
}

// ExtGlobPrefixes maps the two-byte prefix of an extended glob operator
// to its token id (spec "ExtGlob" word part / mode).
var ExtGlobPrefixes = map[string]token.ID{
	"?(": token.GlobQuest, "*(": token.GlobStar, "+(": token.GlobPlus,
	"@(": token.GlobAt, "!(": token.GlobNot,
}
