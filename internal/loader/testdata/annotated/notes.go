// Code generated by hand-rolled tooling, kept to show that only buildgen output is skipped.

package annotated

type Note string
