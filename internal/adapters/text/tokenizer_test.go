package text

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

var testVocabTokens = []string{
	"[PAD]", "[UNK]", "[CLS]", "[SEP]",
	"i", "feel", "great", "##ly", "!", "cafe", "to", "##day",
}

func writeTestVocab(t *testing.T, tokens []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	return path
}

func newTestTokenizer(t *testing.T, seqLen int) *tokenizer {
	t.Helper()
	tok, err := newTokenizer(writeTestVocab(t, testVocabTokens), seqLen)
	if err != nil {
		t.Fatalf("create tokenizer: %v", err)
	}
	return tok
}

func TestLoadVocab(t *testing.T) {
	v, err := loadVocab(writeTestVocab(t, testVocabTokens))
	if err != nil {
		t.Fatalf("load vocab: %v", err)
	}
	if v.padID != 0 || v.unkID != 1 || v.clsID != 2 || v.sepID != 3 {
		t.Fatalf("special IDs wrong: pad=%d unk=%d cls=%d sep=%d", v.padID, v.unkID, v.clsID, v.sepID)
	}
	if v.lookup("feel") != 5 {
		t.Fatalf("lookup feel: got %d, want 5", v.lookup("feel"))
	}
	if v.lookup("nope") != v.unkID {
		t.Fatalf("unknown token should resolve to [UNK], got %d", v.lookup("nope"))
	}
}

func TestLoadVocab_MissingSpecials(t *testing.T) {
	if _, err := loadVocab(writeTestVocab(t, []string{"[PAD]", "[UNK]", "just", "words"})); err == nil {
		t.Fatal("expected an error for a vocab without [CLS]")
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		ids  []int64 // non-padding portion
	}{
		{
			name: "simple",
			text: "i feel great !",
			ids:  []int64{2, 4, 5, 6, 8, 3},
		},
		{
			name: "wordpiece decomposition",
			text: "greatly",
			ids:  []int64{2, 6, 7, 3},
		},
		{
			name: "unknown word",
			text: "xyzzy",
			ids:  []int64{2, 1, 3},
		},
		{
			name: "case and accents",
			text: "Café",
			ids:  []int64{2, 9, 3},
		},
		{
			name: "punctuation split",
			text: "great!",
			ids:  []int64{2, 6, 8, 3},
		},
		{
			name: "empty string",
			text: "",
			ids:  []int64{2, 3},
		},
	}

	const seqLen = 16
	tok := newTestTokenizer(t, seqLen)

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			ids, mask, typeIDs := tok.tokenize(tc.text)

			realLen := len(tc.ids)
			if !reflect.DeepEqual(ids[:realLen], tc.ids) {
				t.Errorf("input_ids mismatch\n  want: %v\n  got:  %v", tc.ids, ids[:realLen])
			}

			for i := 0; i < seqLen; i++ {
				wantMask := int64(0)
				if i < realLen {
					wantMask = 1
				}
				if mask[i] != wantMask {
					t.Errorf("attention_mask[%d] = %d, want %d", i, mask[i], wantMask)
				}
				if i >= realLen && ids[i] != 0 {
					t.Errorf("input_ids[%d] = %d, want 0 (padding)", i, ids[i])
				}
				if typeIDs[i] != 0 {
					t.Errorf("token_type_ids[%d] = %d, want 0", i, typeIDs[i])
				}
			}

			if len(ids) != seqLen || len(mask) != seqLen || len(typeIDs) != seqLen {
				t.Errorf("expected length %d, got ids=%d mask=%d typeIDs=%d",
					seqLen, len(ids), len(mask), len(typeIDs))
			}
		})
	}
}

func TestTokenize_Truncation(t *testing.T) {
	const seqLen = 6
	tok := newTestTokenizer(t, seqLen)

	// "today" decomposes to "to ##day"; seven tokens truncate to four.
	ids, mask, _ := tok.tokenize("i feel great today i feel")

	want := []int64{2, 4, 5, 6, 10, 3}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("truncated ids\n  want: %v\n  got:  %v", want, ids)
	}
	for i, m := range mask {
		if m != 1 {
			t.Fatalf("attention_mask[%d] = %d, want 1 after truncation", i, m)
		}
	}
}
