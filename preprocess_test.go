package recipe

import "testing"

func TestPreProcessRecipeText(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want string
	}{
		{
			name: "dot function in set statement",
			in:   `{% set name = "FooPkg".lower() %}` + "\n",
			want: `{% set name = "FooPkg" | lower %}` + "\n",
		},
		{
			name: "dot function in substitution",
			in:   `{{ name.replace("-", "_") }}` + "\n",
			want: `{{ name | replace("-", "_") }}` + "\n",
		},
		{
			name: "pin bound renames",
			in:   "run: {{ pin_compatible('numpy', min_pin='x.x', max_pin='x') }}\n",
			want: "run: {{ pin_compatible('numpy', lower_bound='x.x', upper_bound='x') }}\n",
		},
		{
			name: "environ lookup",
			in:   `license_file: {{ environ["LICENSE_FILE"] }}` + "\n",
			want: `license_file: {{ env.get("LICENSE_FILE") }}` + "\n",
		},
		{
			name: "quoted multiline string",
			in:   "package:\n  description: \"foo\\nbar\"\n",
			want: "package:\n  description: |\n    foo\n    bar\n",
		},
		{
			name: "untouched text",
			in:   "package:\n  name: fakepkg\n",
			want: "package:\n  name: fakepkg\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := PreProcessRecipeText(tc.in); got != tc.want {
				t.Errorf("PreProcessRecipeText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPreProcessRemoveHashType(t *testing.T) {
	in := `{% set hash_type = "sha256" %}
source:
  url: https://example.com/pkg.tar.gz
  {{ hash_type }}: abc123
`
	want := `source:
  url: https://example.com/pkg.tar.gz
  sha256: abc123
`
	if got := PreProcessRemoveHashType(in); got != want {
		t.Errorf("PreProcessRemoveHashType() = %q, want %q", got, want)
	}
}
