package postproc

import (
	"errors"
	"strings"
	"testing"
)

func TestReplaceNoMarkers(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "empty input", source: ""},
		{
			name: "near-miss markers stay verbatim",
			source: `// _comment!_("comment");

/* /* nested comment */ */

/// This is a main function
fn main() {
    println!("hello world");
    println!(r##"hello raw world!"##);
}
_blank!_;
`,
		},
		{name: "marker text inside line comment", source: "// _blank_!(2);\nfn f() {}\n"},
		{name: "trailing underscore", source: "fn main() {}\n_"},
		{name: "trailing r", source: "let r"},
		{name: "trailing slash", source: "x /"},
		{name: "unterminated string", source: "\"abc"},
		{name: "unterminated block comment", source: "/* abc"},
		{name: "unterminated raw string", source: "r#\"abc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Replace(tc.source, false)
			if err != nil {
				t.Fatalf("Replace() error = %v", err)
			}
			if got.Changed {
				t.Error("Replace() reported a change on marker-free input")
			}
			if got.Text != tc.source {
				t.Errorf("Replace() = %q, want input unchanged", got.Text)
			}
		})
	}
}

func TestReplaceComments(t *testing.T) {
	source := `// _comment!_("comment");

/* /* nested comment */ */
_comment_!("comment 1\n\ncomment 2");
_comment_!("test");
_comment!("skip this");
/// This is a main function
fn main() {
    println!(r##"hello raw world!"##);
    _comment_!(r"");
    _comment_!();
    println!("hello \nworld");
}

   _comment_ !
( r#"This is two
comments"# )
;
_blank!_;
`
	want := `// _comment!_("comment");

/* /* nested comment */ */
// comment 1
//
// comment 2
// test
_comment!("skip this");
/// This is a main function
fn main() {
    println!(r##"hello raw world!"##);
    //
    //
    println!("hello \nworld");
}

   // This is two
   // comments
_blank!_;
`

	assertReplaced(t, source, false, want)
}

func TestReplaceBlanks(t *testing.T) {
	source := `// _blank!_(5);

/* /* nested comment */ */
_blank_!(2);
_blank!_("skip this");
#[doc = "This is a main function"]
fn main() {
    let r#test = "hello";
    println!(r"hello raw world!");
    _blank_!();
    println!("hello \nworld");
}

      _blank_
!(
2
);
_blank!_;
`
	want := `// _blank!_(5);

/* /* nested comment */ */


_blank!_("skip this");
#[doc = "This is a main function"]
fn main() {
    let r#test = "hello";
    println!(r"hello raw world!");

    println!("hello \nworld");
}



_blank!_;
`

	assertReplaced(t, source, false, want)
}

func TestReplaceDocBlocks(t *testing.T) {
	source := `// _blank!_(5);

/* not a nested comment */
#[doc = r#" This is a main function"#]
#[doc = r#" This is two doc
 comments"#]
#[cfg(feature = "main")]
#[doc(hidden)]
fn main() {
    println!(r##"hello raw world!"##);
    #[doc = ""]
    println!("hello \nworld");
}

#    [
doc
 =
 " this is\n\n three doc comments"

 ]
fn test() {
}
_blank!_;
`
	want := `// _blank!_(5);

/* not a nested comment */
/// This is a main function
/// This is two doc
/// comments
#[cfg(feature = "main")]
#[doc(hidden)]
fn main() {
    println!(r##"hello raw world!"##);
    ///
    println!("hello \nworld");
}

/// this is
///
/// three doc comments
fn test() {
}
_blank!_;
`

	assertReplaced(t, source, true, want)

	// With doc block rewriting off, the same input is untouched.
	got, err := Replace(source, false)
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if got.Changed || got.Text != source {
		t.Error("Replace() rewrote doc blocks without opting in")
	}
}

func TestReplaceLineEndings(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "crlf blanks",
			source: "_blank_!(2);\r\n",
			want:   "\r\n\r\n",
		},
		{
			name:   "crlf comment keeps indent",
			source: "    _comment_!(\"x\");\r\n",
			want:   "    // x\r\n",
		},
		{
			name:   "mixed endings follow each marker",
			source: "_blank_!();\r\n_blank_!();\n",
			want:   "\r\n\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertReplaced(t, tc.source, false, tc.want)
		})
	}
}

func TestReplaceLexicalBoundaries(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		docBlocks bool
		want      string
	}{
		{
			name:   "block comment closed by star run",
			source: "/* x **/ _blank_!();\n",
			want:   "/* x **/\n",
		},
		{
			name:   "raw string closed right after opening quote",
			source: "let x = r##\"\"##; _blank_!();\n",
			want:   "let x = r##\"\"##;\n",
		},
		{
			name:   "backslash run before closing quote",
			source: "let x = \"\\\\\"; _blank_!();\n",
			want:   "let x = \"\\\\\";\n",
		},
		{
			name:   "escaped quote stays inside string",
			source: "let x = \"a\\\"b\"; _blank_!();\n",
			want:   "let x = \"a\\\"b\";\n",
		},
		{
			name:      "marker text inside string",
			source:    "let x = \"_comment_!(\\\"hi\\\");\"; _blank_!();\n",
			docBlocks: true,
			want:      "let x = \"_comment_!(\\\"hi\\\");\";\n",
		},
		{
			name:   "escaped payload renders decoded",
			source: "_comment_!(\"a\\\\b \\u{2764}\");\n",
			want:   "// a\\b \u2764\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertReplaced(t, tc.source, tc.docBlocks, tc.want)
		})
	}
}

func TestReplaceErrors(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		docBlocks bool
	}{
		{name: "input ends after prefix", source: "_blank_!("},
		{name: "comment param not a string", source: "_comment_!(blah);\n"},
		{name: "bad marker suffix", source: "_comment_!(\"blah\"];\n"},
		{name: "doc string not closed", source: "#[doc = \"test]\n", docBlocks: true},
		{name: "doc block without string", source: "#[doc = ]\n", docBlocks: true},
		{name: "no line ending after marker", source: "_blank_!(2); x\n"},
		{name: "payload not an integer", source: "_blank_!(two);\n"},
		{name: "negative count", source: "_blank_!(-1);\n"},
		{name: "comment payload not raw string", source: "_comment_!(rumba);\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Replace(tc.source, tc.docBlocks)
			if err == nil {
				t.Fatal("Replace() succeeded, want syntax error")
			}

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Replace() error = %T, want *SyntaxError", err)
			}
			if syntaxErr.Offset < 0 || syntaxErr.Offset > len(tc.source) {
				t.Errorf("SyntaxError.Offset = %d, outside input of length %d", syntaxErr.Offset, len(tc.source))
			}
			if !strings.Contains(err.Error(), "offset") {
				t.Errorf("SyntaxError.Error() = %q, missing offset", err)
			}
		})
	}
}

func TestReplaceLargeCount(t *testing.T) {
	got, err := Replace("_blank_!(1_000u32);\n", false)
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if want := strings.Repeat("\n", 1000); got.Text != want {
		t.Errorf("Replace() produced %d bytes, want %d", len(got.Text), len(want))
	}
}

func assertReplaced(t *testing.T, source string, docBlocks bool, want string) {
	t.Helper()

	got, err := Replace(source, docBlocks)
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if !got.Changed {
		t.Error("Replace() reported no change")
	}
	if got.Text != want {
		t.Errorf("Replace() mismatch\ngot:\n%s\nwant:\n%s", got.Text, want)
	}
}
