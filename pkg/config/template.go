package config

// Template returns a commented starter configuration for rustgen init.
func Template() string {
	return `# rustgen project configuration.

[general]
# Prepended to every generated file path.
base_path = "src/"

# Rewrite #[doc = "..."] attributes into /// doc comments.
# replace_doc_blocks = true

[general.rustfmt]
# Skip the final rustfmt pass; markers are still replaced.
# skip_final_format = true

# Executable to run. The RUSTFMT environment variable also works.
# path = "rustfmt"

# edition = "2021"

# Options passed to rustfmt as --config key=value.
# [general.rustfmt.options]
# normalize_comments = "true"

# Vars available to every fragment. File vars override these.
# Strings starting with "$ident$" or "$int_lit$" interpolate as bare
# code instead of string literals.
[general.vars]
# product = "MyCrate"
# suffix = "$ident$Str"
# count = 5

# Named lists of fragments. An entry naming another list includes it.
[fragment_lists]
# impl = ["impl_struct", "impl_core_ref"]
# impl_struct = ["empty", "from_ref"]

# One [files.NAME] table per generated file.
# [files.str]
# path = "strings/generated/std_str.rs"
# fragment_list = "impl"
# fragment_list_exceptions = ["impl_core_ref"]
# [files.str.vars]
# str_type = "str"
`
}
