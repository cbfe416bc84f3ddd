package sparser

// SExpr is the surface-syntax grammar's single expression node: exactly
// one of its alternatives is populated, participle-style, the way the
// teacher's SourceElement picks between Comment and Module.
type SExpr struct {
	App      *AppExpr      `  @@`
	Lam      *LamExpr      `| @@`
	Programs *ProgramsExpr `| @@`
	Var      string        `| @Var`
	IVar     string        `| @IVar`
	Prim     string        `| @Ident`
}

// AppExpr is "(app f x)".
type AppExpr struct {
	F *SExpr `"(" "app" @@`
	X *SExpr `@@ ")"`
}

// LamExpr is "(lam body)".
type LamExpr struct {
	Body *SExpr `"(" "lam" @@ ")"`
}

// ProgramsExpr is "(programs p1 p2 ...)", accepting any number of roots
// including zero.
type ProgramsExpr struct {
	Roots []*SExpr `"(" "programs" @@* ")"`
}
