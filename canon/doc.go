// Package canon turns arbitrary Go values into a deterministic canonical
// string.
//
// Two values that are equal by the rules below encode to byte-identical
// strings; different values encode differently. The encoding is not meant to
// be parsed back, only compared or hashed.
//
// # Dispatch
//
// Every value is classified into exactly one Kind and encoded by the first
// rule that applies:
//
//  1. Absent (the Undefined sentinel) encodes as the empty string.
//  2. Scalars (bool, integers, floats, strings, nil) encode as JSON literals.
//  3. Funcs encode as an identity label, e.g. "function handler_<token>".
//  4. time.Time encodes as an ISO-8601 UTC string with millisecond precision.
//  5. *regexp.Regexp encodes as /expr/.
//  6. Sets (Set and map[K]struct{}) encode their members, sort the encoded
//     strings and wrap them as Set(...).
//  7. Maps whose keys are not strings (and Map) sort entries by raw key and
//     encode as Map(key:value,...).
//  8. Options.CustomEncoder, when set and it reports a result, wins.
//  9. A reference already on the current path encodes as *Circular*.
//  10. Slices and arrays encode as [a,b,...], sorted when Options.SortArrays.
//  11. Records (string-keyed maps and structs) encode as {"k":v,...} with
//     sorted keys, dropping absent values when
//     Options.IgnoreUndefinedProperties.
//  12. Opaque references (pointers to structs without exported fields,
//     channels, unsafe pointers) encode as an identity label,
//     e.g. "instance File_<token>".
//
// Non-nil pointers and interfaces are transparent: the value they point to is
// encoded. Nil pointers, interfaces, funcs and channels encode as null, while
// nil slices and maps encode as empty containers.
//
// # Ordering
//
// Sorting uses one comparison for all containers. Numbers compare
// numerically across integer and float kinds, strings compare by UTF-16 code
// units, and false sorts before true. Across classes, numbers come first,
// then strings, then booleans, then everything else. Non-scalars, and any
// tie, are ordered by their encoded forms. The code-unit order matters: it
// places "😀" before "\uffff", whereas a byte-wise comparison of UTF-8 does
// not.
//
// Set members are the exception: they are sorted by their encoded forms
// alone.
//
// # Cycles
//
// Cycle detection tracks the references on the current path only. A value
// shared by two sibling branches is expanded in both; only a value that
// contains itself is cut short.
package canon
