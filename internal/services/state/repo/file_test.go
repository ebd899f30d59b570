package repo_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"jakebot/internal/platform/testkit"
	"jakebot/internal/services/state/domain"
	"jakebot/internal/services/state/repo"
)

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := repo.NewFile(filepath.Join(t.TempDir(), "nested", "state.json"))

	in := domain.Snapshot{
		SeenPostIDs:      []string{"a", "b", "c"},
		AutoproxyEnabled: false,
		Signalers:        []string{"\U0001F428", "["},
	}
	if err := f.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out := f.Load(ctx)
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch\nin  %+v\nout %+v", in, out)
	}
}

func TestFileMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	missing := repo.NewFile(filepath.Join(dir, "nope.json")).Load(ctx)
	if !reflect.DeepEqual(missing, domain.Defaults()) {
		t.Fatalf("missing file = %+v", missing)
	}

	p := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := repo.NewFile(p).Load(ctx)
	if !reflect.DeepEqual(bad, domain.Defaults()) {
		t.Fatalf("corrupt file = %+v", bad)
	}
}

func TestDecodeFieldByField(t *testing.T) {
	cases := []struct {
		name     string
		doc      string
		want     domain.Snapshot
		problems int
	}{
		{
			name: "legacy file without autoproxy",
			doc:  `{"seenPostIds":["x"],"signalers":["*"]}`,
			want: domain.Snapshot{SeenPostIDs: []string{"x"}, AutoproxyEnabled: true, Signalers: []string{"*"}},
		},
		{
			name:     "bad ids keep the rest",
			doc:      `{"seenPostIds":"oops","autoproxyEnabled":false}`,
			want:     domain.Snapshot{SeenPostIDs: []string{}, AutoproxyEnabled: false},
			problems: 1,
		},
		{
			name:     "bad flag",
			doc:      `{"seenPostIds":["y"],"autoproxyEnabled":"no"}`,
			want:     domain.Snapshot{SeenPostIDs: []string{"y"}, AutoproxyEnabled: true},
			problems: 1,
		},
		{
			name: "null ids",
			doc:  `{"seenPostIds":null}`,
			want: domain.Defaults(),
		},
		{
			name: "null flag keeps the default",
			doc:  `{"seenPostIds":["a"],"autoproxyEnabled":null}`,
			want: domain.Snapshot{SeenPostIDs: []string{"a"}, AutoproxyEnabled: true},
		},
		{
			name:     "not an object",
			doc:      `[1,2]`,
			want:     domain.Defaults(),
			problems: 1,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, problems := repo.Decode([]byte(c.doc))
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("got %+v want %+v", got, c.want)
			}
			if len(problems) != c.problems {
				t.Fatalf("problems = %v", problems)
			}
		})
	}
}

func TestFileSaveNilIDs(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "s.json")
	f := repo.NewFile(p)
	if err := f.Save(ctx, domain.Snapshot{AutoproxyEnabled: true}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	testkit.MustContain(t, string(b), `"seenPostIds": []`)
}
