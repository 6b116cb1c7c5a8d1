package query

// SyntaxHelp returns the user-facing description of the query language.
func SyntaxHelp() string {
	return `Search syntax

  Terms
    api auth              documents containing both words (implicit AND)
    "exact phrase"        words in this exact order

  Field filters
    status:planned        status equals value (planned, in-progress, complete, archived)
    tag:api               has the tag "api" (tags:api works too)
    priority:high         priority equals value
    assignee:alice        assignee equals value
    name:auth             spec name contains value
    status:"in progress"  quote values containing spaces

  Date filters (created, updated, completed, due)
    created:>2025-11-01               after a date
    created:<2025-11-01               before a date
    created:2025-11-01..2025-11-15    within a range (inclusive)

  Boolean operators (uppercase)
    api AND auth          both terms
    frontend OR backend   either term
    api NOT deprecated    exclude a term
    (frontend OR backend) AND api
                          group with parentheses

  Fuzzy matching
    authetication~        tolerate a one-character typo

Operators bind in this order, loosest first: OR, AND, NOT.`
}
