// Package prompt renders the turns of a completion request: the system prompt
// describing the tools and the calling grammar, then one assistant turn and
// one user turn per past subtask.
//
// [TemplateRenderer] is the default [Renderer], built on text/template. Each
// template can be replaced with an [Option].
package prompt
