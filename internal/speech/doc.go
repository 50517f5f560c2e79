// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech provides text-to-speech playback of AI replies.
//
// Reply text is Markdown; SanitizeMarkdown strips the syntax down to
// speakable prose before anything reaches the engine. Engines are
// pluggable: CommandEngine shells out to a system synthesizer (say,
// espeak) with newest-call-wins cancellation, NopEngine drops everything
// when playback is disabled.
//
// Engine failures pass through a notification filter: permission and
// engine-availability failures surface to the user, transient playback
// noise (interrupted, busy, canceled) is logged only. The one permission
// failure during the initial non-interactive autoplay is expected and
// stays silent.
package speech
