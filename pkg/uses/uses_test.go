package uses

import (
	"errors"
	"reflect"
	"testing"
)

func addAll(t *testing.T, b *Builder, srcs ...string) {
	t.Helper()
	for _, src := range srcs {
		if err := b.Add(src); err != nil {
			t.Fatalf("Add(%q) error = %v", src, err)
		}
	}
}

func TestBuilderItems(t *testing.T) {
	b := NewBuilder()
	addAll(t, b,
		`use crate::Test;
		 use std::error::Error as StdError;
		 use std::fmt::Debug;`,
		`use syn::ItemUse;
		 use std::fmt::Display;
		 use crate::*;`,
	)

	got, err := b.Items()
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}

	want := []string{
		"use crate::*;",
		"use std::error::Error as StdError;",
		"use std::fmt::{Debug, Display};",
		"use syn::ItemUse;",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Items() = %#v, want %#v", got, want)
	}
}

func TestBuilderSections(t *testing.T) {
	b := NewBuilder()
	addAll(t, b,
		`use crate::Test;
		 use std::error::Error as StdError;
		 use std::fmt::Debug;`,
		`use syn::ItemUse;
		 use std::fmt::Display;
		 use crate::*;`,
	)

	got, err := b.Sections()
	if err != nil {
		t.Fatalf("Sections() error = %v", err)
	}

	want := Sections{
		Std: []string{
			"use std::error::Error as StdError;",
			"use std::fmt::{Debug, Display};",
		},
		External: []string{"use syn::ItemUse;"},
		Crate:    []string{"use crate::*;"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sections() = %#v, want %#v", got, want)
	}
}

func TestBuilderMerging(t *testing.T) {
	tests := []struct {
		name string
		srcs []string
		want []string
	}{
		{
			name: "duplicates collapse",
			srcs: []string{"use std::fmt::Debug;", "use std::fmt::Debug;"},
			want: []string{"use std::fmt::Debug;"},
		},
		{
			name: "nested groups flatten",
			srcs: []string{"use a::{b::{c, d}, e};"},
			want: []string{"use a::b::{c, d};", "use a::e;"},
		},
		{
			name: "glob absorbs sibling names",
			srcs: []string{"use serde::Serialize;", "use serde::*;"},
			want: []string{"use serde::*;"},
		},
		{
			name: "same name at different depths",
			srcs: []string{"use fmt::Debug;", "use std::fmt::Debug;"},
			want: []string{"use fmt::Debug;", "use std::fmt::Debug;"},
		},
		{
			name: "single segment import",
			srcs: []string{"use serde_json;"},
			want: []string{"use serde_json;"},
		},
		{
			name: "pub and private kept separate",
			srcs: []string{"pub use x::A;", "use x::B;"},
			want: []string{"pub use x::A;", "use x::B;"},
		},
		{
			name: "attributes carried through",
			srcs: []string{"#[cfg(test)]\nuse x::A;"},
			want: []string{"#[cfg(test)]\nuse x::A;"},
		},
		{
			name: "leading colons preserved",
			srcs: []string{"use ::x::A;"},
			want: []string{"use ::x::A;"},
		},
		{
			name: "raw identifier segment",
			srcs: []string{"use x::r#type;"},
			want: []string{"use x::r#type;"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder()
			addAll(t, b, tc.srcs...)

			got, err := b.Items()
			if err != nil {
				t.Fatalf("Items() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Items() = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	t.Run("top level glob", func(t *testing.T) {
		err := NewBuilder().Add("use *;")
		if !errors.Is(err, ErrTopLevelGlob) {
			t.Errorf("Add() error = %v, want ErrTopLevelGlob", err)
		}
	})

	t.Run("top level group", func(t *testing.T) {
		err := NewBuilder().Add("use {a, b};")
		if !errors.Is(err, ErrTopLevelGroup) {
			t.Errorf("Add() error = %v, want ErrTopLevelGroup", err)
		}
	})

	t.Run("conflicting attributes", func(t *testing.T) {
		b := NewBuilder()
		addAll(t, b, "use std::fmt::Debug;", "pub use std::fmt::Debug;")

		_, err := b.Items()
		if !errors.Is(err, ErrConflictingAttrs) {
			t.Errorf("Items() error = %v, want ErrConflictingAttrs", err)
		}
	})

	t.Run("parse errors", func(t *testing.T) {
		bad := []string{
			"use ;",
			"use a::;",
			"usefix a;",
			"use a::{b, ;",
			"use a",
			"pub(crate use a;",
			"#[cfg(test) use a;",
		}
		for _, src := range bad {
			if err := NewBuilder().Add(src); err == nil {
				t.Errorf("Add(%q) succeeded, want parse error", src)
			}
		}
	})
}
