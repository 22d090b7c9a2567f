// Package syntax validates and rewrites protease rule expressions.
//
// An expression lists one parenthesised group per sequence position, for
// example "(W)(K,)(P)". Exactly one group carries a comma, which marks the
// cut boundary: "(K,)" cuts after K and "(,K)" cuts before it. A group may
// hold alternatives joined by " or ", and a group written "(,K,)" cuts on
// both sides of K. Empty groups "()" match any residue.
package syntax
