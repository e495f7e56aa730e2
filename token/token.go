// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package token defines the closed set of terminal token ids the lexer
// can produce, and the coarser Kind each one belongs to.
//
// The id enumeration mirrors mvdan.cc/sh/v3's internal token type one
// rule-for-rule, since match tables are defined over exactly these
// values: ids before firstVariable are single shell operators or
// reserved words with a fixed spelling, ids after it are the
// non-terminal-shaped kinds (literals, var-sub operators, ignored tokens,
// EOF) that carry a Kind but no fixed spelling.
package token

// ID identifies a terminal token kind. The zero value is Illegal, whose
// Kind is Unknown.
type ID int

// Kind groups token ids into the coarse categories the command and word
// parsers dispatch on.
type Kind int

const (
	Unknown Kind = iota
	Ignored
	Word
	Redir
	Op
	KW
	Assign
	Arith
	BoolUnary
	BoolBinary
	VSub
	VOp0
	VOp1
	VOp2
	Left
	Right
	Eof
)

func (k Kind) String() string {
	switch k {
	case Ignored:
		return "Ignored"
	case Word:
		return "Word"
	case Redir:
		return "Redir"
	case Op:
		return "Op"
	case KW:
		return "KW"
	case Assign:
		return "Assign"
	case Arith:
		return "Arith"
	case BoolUnary:
		return "BoolUnary"
	case BoolBinary:
		return "BoolBinary"
	case VSub:
		return "VSub"
	case VOp0:
		return "VOp0"
	case VOp1:
		return "VOp1"
	case VOp2:
		return "VOp2"
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Eof:
		return "Eof"
	default:
		return "Unknown"
	}
}

// The closed set of terminal ids. Values before firstVariable are single
// shell operators/reserved words with a fixed spelling (see names, below);
// values after it are variable-shaped (literals, var-sub operators,
// ignored/sentinel tokens).
const (
	Illegal ID = iota

	// Operators (Kind == Op unless noted).
	Semi     // ;
	Newline  // \n            (Kind == Op; the Ignored ids come after firstVariable)
	Pipe     // |
	PipeAmp  // |&
	AndAnd   // &&
	OrOr     // ||
	Amp      // &
	Lparen   // (             (Kind == Left)
	Rparen   // )             (Kind == Right; rewritten via hints)
	Lbrace   // {             (Kind == KW in command position)
	Rbrace   // }             (Kind == KW)
	Bang     // !
	DLparen  // ((
	DRparen  // ))            (Kind == Right)
	DLbrack  // [[            (Kind == KW)
	DRbrack  // ]]            (Kind == KW)
	DSemi     // ;;            (Kind == Op; case-arm terminator)
	SemiFall  // ;&            (Kind == Op; case-arm fallthrough)
	DSemiFall // ;;&           (Kind == Op; case-arm fallthrough-and-test)

	// Redirections (Kind == Redir).
	Less        // <
	Great       // >
	DLess       // <<
	DGreat      // >>
	DLessDash   // <<-
	TLess       // <<<
	LessAnd     // <&
	GreatAnd    // >&
	LessGreat   // <>
	Clobber     // >|
	RdrAll      // &>
	AppAll      // &>>
	CmdIn       // <(
	CmdOut      // >(

	// Reserved words (Kind == KW).
	If
	Then
	Elif
	Else
	Fi
	While
	Until
	Do
	Done
	For
	In
	Case
	Esac
	Function
	Select
	Time
	Coproc
	Bang_KW // the "!" pipeline-negation keyword, distinct lexically from Bang above

	// Assignment keywords (Kind == KW, classified further by the parser).
	Declare
	Typeset
	Local
	Export
	Readonly
	Unset

	// Control-flow keywords (Kind == KW).
	Break
	Continue
	Return
	Exit

	// Oil-variant binding keywords (Kind == KW), gated to LangOil.
	Var
	SetVar

	// Var-sub bracket/prefix/suffix operator families (Kind noted per id).
	Assgn // =                  Kind == Assign

	SQuoteOpen // '             Kind == Left
	DQuoteOpen // "             Kind == Left
	BQuoteOpen // `             Kind == Left
	Dollar     // $ (bare, followed by a name/special-param char) Kind == Left

	LeftBrace  // ${            Kind == Left
	DollSQ     // $'            Kind == Left
	DollDQ     // $"            Kind == Left
	DollParen  // $(            Kind == Left
	DollDParen // $((           Kind == Left
	DollBrack  // $[            Kind == Left
	Backtick   // `             Kind == Left/Right depending on hint

	VBang   // !  prefix indirection op     Kind == VOp0
	VHash   // #  prefix length op          Kind == VOp0
	VAt     // @  bracket op [@]            Kind == VSub
	VStar   // *  bracket op [*]            Kind == VSub
	VColonMinus  // :-                      Kind == VOp2
	VColonEq     // :=                      Kind == VOp2
	VColonQuest  // :?                      Kind == VOp2
	VColonPlus   // :+                      Kind == VOp2
	VMinus       // -                       Kind == VOp2
	VEq          // =                       Kind == VOp2
	VQuest       // ?                       Kind == VOp2
	VPlus        // +                       Kind == VOp2
	VPercent     // %                       Kind == VOp1
	VDPercent    // %%                      Kind == VOp1
	VHashOp      // #  strip-prefix op      Kind == VOp1
	VDHash       // ##                      Kind == VOp1
	VCaret       // ^                       Kind == VOp1
	VDCaret      // ^^                      Kind == VOp1
	VComma       // ,                       Kind == VOp1
	VDComma      // ,,                      Kind == VOp1
	VSlash       // /   pattern substitution Kind == VOp2
	VColon       // :   slice               Kind == VOp2
	VCapP        // P  nullary @P           Kind == VOp0
	VCapQ        // Q  nullary @Q           Kind == VOp0

	// Boolean-test operators inside [[ ]] (Kind noted).
	TEq // -eq            Kind == BoolBinary
	TNe // -ne
	TLt // -lt
	TGt // -gt
	TLe // -le
	TGe // -ge
	TNewer
	TOlder
	TSameFile
	TRegexMatch // =~
	TStrEq      // ==
	TStrNe      // !=
	TAndAnd
	TOrOr

	TFileExists // -e          Kind == BoolUnary
	TRegFile    // -f
	TDir        // -d
	TCharDev    // -c
	TBlockDev   // -b
	TNamedPipe  // -p
	TSocket     // -S
	TSymlink    // -L
	TSetGID     // -g
	TSetUID     // -u
	TReadable   // -r
	TWritable   // -w
	TExecutable // -x
	TNonEmpty   // -s
	TTerminal   // -t
	TEmptyStr   // -z
	TNonEmptyStr // -n
	TOptSet      // -o
	TVarSet      // -v
	TNameRef     // -R

	// Arithmetic-mode operators (Kind == Arith).
	APlus
	AMinus
	AStar
	ASlash
	APercent
	ACaret
	AInc
	ADec
	ADStar // **
	ALss
	AGtr
	ALeq
	AGeq
	AEql
	ANeq
	AAnd
	AOr
	AXor
	ANot
	ATilde
	AShl
	AShr
	AQuest
	AColon
	AComma
	AAssign
	APlusAssign
	AMinusAssign
	AStarAssign
	ASlashAssign
	APercentAssign
	AAndAssign
	AOrAssign
	AXorAssign
	AShlAssign
	AShrAssign
	ALbrack
	ARbrack

	// Extended glob operators (Kind == Op).
	GlobQuest // ?(
	GlobStar  // *(
	GlobPlus  // +(
	GlobAt    // @(
	GlobNot   // !(

	// Non-fixed-spelling ids (>= firstVariable). Kind noted per id.
	firstVariable

	LitWord     // Kind == Word: a literal fragment that ends the word
	LitCont     // Kind == Word: a literal fragment followed by more parts
	LitRedirDst // Kind == Word: a redirect fd/target that lexes as a literal
	Assign_     // NAME=... prefix word     Kind == Assign

	IgnoredSpace   // Kind == Ignored
	IgnoredComment // Kind == Ignored
	IgnoredLineCont // Kind == Ignored; elided by the lexer, never surfaced

	CompDummy // Kind == Word; emitted once at EOF when completion requested it
	EOLSentinel // Kind == Eof; emitted at end of line, does not advance pos
	EOFReal     // Kind == Eof
)

var names = map[ID]string{
	Illegal: "illegal", Semi: ";", Newline: "\\n", Pipe: "|", PipeAmp: "|&",
	AndAnd: "&&", OrOr: "||", Amp: "&", Lparen: "(", Rparen: ")",
	Lbrace: "{", Rbrace: "}", Bang: "!", DLparen: "((", DRparen: "))",
	DLbrack: "[[", DRbrack: "]]", DSemi: ";;", SemiFall: ";&", DSemiFall: ";;&",
	SQuoteOpen: "'", DQuoteOpen: "\"", BQuoteOpen: "`", Dollar: "$",
	Less: "<", Great: ">", DLess: "<<", DGreat: ">>", DLessDash: "<<-",
	TLess: "<<<", LessAnd: "<&", GreatAnd: ">&", LessGreat: "<>",
	Clobber: ">|", RdrAll: "&>", AppAll: "&>>", CmdIn: "<(", CmdOut: ">(",
	If: "if", Then: "then", Elif: "elif", Else: "else", Fi: "fi",
	While: "while", Until: "until", Do: "do", Done: "done", For: "for",
	In: "in", Case: "case", Esac: "esac", Function: "function",
	Select: "select", Time: "time", Coproc: "coproc", Bang_KW: "!",
	Declare: "declare", Typeset: "typeset", Local: "local", Export: "export",
	Readonly: "readonly", Unset: "unset",
	Break: "break", Continue: "continue", Return: "return", Exit: "exit",
	Var: "var", SetVar: "setvar",
	Assgn: "=", LeftBrace: "${", DollSQ: "$'", DollDQ: `$"`, DollParen: "$(",
	DollDParen: "$((", DollBrack: "$[", Backtick: "`",
	VBang: "!", VHash: "#", VAt: "@", VStar: "*",
	VColonMinus: ":-", VColonEq: ":=", VColonQuest: ":?", VColonPlus: ":+",
	VMinus: "-", VEq: "=", VQuest: "?", VPlus: "+",
	VPercent: "%", VDPercent: "%%", VHashOp: "#", VDHash: "##",
	VCaret: "^", VDCaret: "^^", VComma: ",", VDComma: ",,",
	VSlash: "/", VColon: ":", VCapP: "@P", VCapQ: "@Q",
	TEq: "-eq", TNe: "-ne", TLt: "-lt", TGt: "-gt", TLe: "-le", TGe: "-ge",
	TNewer: "-nt", TOlder: "-ot", TSameFile: "-ef", TRegexMatch: "=~",
	TStrEq: "==", TStrNe: "!=", TAndAnd: "&&", TOrOr: "||",
	TFileExists: "-e", TRegFile: "-f", TDir: "-d", TCharDev: "-c",
	TBlockDev: "-b", TNamedPipe: "-p", TSocket: "-S", TSymlink: "-L",
	TSetGID: "-g", TSetUID: "-u", TReadable: "-r", TWritable: "-w",
	TExecutable: "-x", TNonEmpty: "-s", TTerminal: "-t", TEmptyStr: "-z",
	TNonEmptyStr: "-n", TOptSet: "-o", TVarSet: "-v", TNameRef: "-R",
	GlobQuest: "?(", GlobStar: "*(", GlobPlus: "+(", GlobAt: "@(", GlobNot: "!(",
	LitWord: "word", LitCont: "word", LitRedirDst: "word", Assign_: "assign",
	IgnoredSpace: "space", IgnoredComment: "comment", IgnoredLineCont: "line-cont",
	CompDummy: "comp-dummy", EOLSentinel: "EOL", EOFReal: "EOF",
}

func (id ID) String() string {
	if s, ok := names[id]; ok {
		return s
	}
	return "unknown"
}

var kinds = map[ID]Kind{
	Semi: Op, Newline: Op, Pipe: Op, PipeAmp: Op, AndAnd: Op, OrOr: Op,
	Amp: Op, Lparen: Left, Rparen: Right, Lbrace: KW, Rbrace: KW,
	Bang: Op, DLparen: Left, DRparen: Right, DLbrack: KW, DRbrack: KW,
	DSemi: Op, SemiFall: Op, DSemiFall: Op,

	Less: Redir, Great: Redir, DLess: Redir, DGreat: Redir, DLessDash: Redir,
	TLess: Redir, LessAnd: Redir, GreatAnd: Redir, LessGreat: Redir,
	Clobber: Redir, RdrAll: Redir, AppAll: Redir, CmdIn: Redir, CmdOut: Redir,

	If: KW, Then: KW, Elif: KW, Else: KW, Fi: KW, While: KW, Until: KW,
	Do: KW, Done: KW, For: KW, In: KW, Case: KW, Esac: KW, Function: KW,
	Select: KW, Time: KW, Coproc: KW, Bang_KW: KW,
	Declare: KW, Typeset: KW, Local: KW, Export: KW, Readonly: KW, Unset: KW,
	Break: KW, Continue: KW, Return: KW, Exit: KW,
	Var: KW, SetVar: KW,

	Assgn: Assign,
	SQuoteOpen: Left, DQuoteOpen: Left, BQuoteOpen: Left, Dollar: Left,
	LeftBrace: Left, DollSQ: Left, DollDQ: Left, DollParen: Left,
	DollDParen: Left, DollBrack: Left, Backtick: Left,

	VBang: VOp0, VHash: VOp0, VCapP: VOp0, VCapQ: VOp0,
	VAt: VSub, VStar: VSub,
	VColonMinus: VOp2, VColonEq: VOp2, VColonQuest: VOp2, VColonPlus: VOp2,
	VMinus: VOp2, VEq: VOp2, VQuest: VOp2, VPlus: VOp2,
	VSlash: VOp2, VColon: VOp2,
	VPercent: VOp1, VDPercent: VOp1, VHashOp: VOp1, VDHash: VOp1,
	VCaret: VOp1, VDCaret: VOp1, VComma: VOp1, VDComma: VOp1,

	TEq: BoolBinary, TNe: BoolBinary, TLt: BoolBinary, TGt: BoolBinary,
	TLe: BoolBinary, TGe: BoolBinary, TNewer: BoolBinary, TOlder: BoolBinary,
	TSameFile: BoolBinary, TRegexMatch: BoolBinary, TStrEq: BoolBinary,
	TStrNe: BoolBinary, TAndAnd: BoolBinary, TOrOr: BoolBinary,
	TFileExists: BoolUnary, TRegFile: BoolUnary, TDir: BoolUnary,
	TCharDev: BoolUnary, TBlockDev: BoolUnary, TNamedPipe: BoolUnary,
	TSocket: BoolUnary, TSymlink: BoolUnary, TSetGID: BoolUnary,
	TSetUID: BoolUnary, TReadable: BoolUnary, TWritable: BoolUnary,
	TExecutable: BoolUnary, TNonEmpty: BoolUnary, TTerminal: BoolUnary,
	TEmptyStr: BoolUnary, TNonEmptyStr: BoolUnary, TOptSet: BoolUnary,
	TVarSet: BoolUnary, TNameRef: BoolUnary,

	APlus: Arith, AMinus: Arith, AStar: Arith, ASlash: Arith, APercent: Arith,
	ACaret: Arith, AInc: Arith, ADec: Arith, ADStar: Arith, ALss: Arith,
	AGtr: Arith, ALeq: Arith, AGeq: Arith, AEql: Arith, ANeq: Arith,
	AAnd: Arith, AOr: Arith, AXor: Arith, ANot: Arith, ATilde: Arith,
	AShl: Arith, AShr: Arith, AQuest: Arith, AColon: Arith, AComma: Arith,
	AAssign: Arith, APlusAssign: Arith, AMinusAssign: Arith, AStarAssign: Arith,
	ASlashAssign: Arith, APercentAssign: Arith, AAndAssign: Arith,
	AOrAssign: Arith, AXorAssign: Arith, AShlAssign: Arith, AShrAssign: Arith,
	ALbrack: Arith, ARbrack: Arith,

	GlobQuest: Op, GlobStar: Op, GlobPlus: Op, GlobAt: Op, GlobNot: Op,

	LitWord: Word, LitCont: Word, LitRedirDst: Word, Assign_: Assign,
	IgnoredSpace: Ignored, IgnoredComment: Ignored, IgnoredLineCont: Ignored,
	CompDummy: Word,
	EOLSentinel: Eof, EOFReal: Eof,
}

// KindOf returns the Kind an id belongs to; the mapping is a static
// table, so that kinds are always derivable from ids alone.
func KindOf(id ID) Kind {
	if k, ok := kinds[id]; ok {
		return k
	}
	return Unknown
}

// Keywords maps reserved-word spellings to their token id, used by the
// command parser to recognize keywords among literal words.
var Keywords = map[string]ID{
	"if": If, "then": Then, "elif": Elif, "else": Else, "fi": Fi,
	"while": While, "until": Until, "do": Do, "done": Done,
	"for": For, "in": In, "case": Case, "esac": Esac,
	"function": Function, "select": Select, "time": Time, "coproc": Coproc,
	"{": Lbrace, "}": Rbrace, "!": Bang_KW, "[[": DLbrack, "]]": DRbrack,
	"declare": Declare, "typeset": Typeset, "local": Local,
	"export": Export, "readonly": Readonly, "unset": Unset,
	"break": Break, "continue": Continue, "return": Return, "exit": Exit,
	"var": Var, "setvar": SetVar,
}
