// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain types and request/response shapes for the
RevMix API.

# Domain Types

  - User: account with XP, level, badges, win/battle counters
  - Room: time-boxed battle session (participants, prompt, expiry, winner)
  - Performance: one submitted audio entry plus its vote aggregates
  - Vote: one voter's three category scores and emoji reaction
  - Challenge, AudioEffect: community challenges and soundboard clips

# Denormalized fields

Vote.VoterUsername and Performance.Username are copied from the user at
write time. They are a read optimization: queries never join back to
app_user for display names, and renames do not rewrite history.

# Aggregates

Performance carries two derived fields, always updated together with the
votes map: VoteCount (len of votes) and AverageScore (mean over voters of
each voter's own three-category mean).

# Sensitive fields

User.AuthID, User.PasswordHash, and User.IsTestUser carry json:"-" and
are never serialized.
*/
package models
