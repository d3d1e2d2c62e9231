package rowmodel

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/highlight"
	"github.com/vroablec/notebook-navigator-sub013/internal/notemeta"
	"github.com/vroablec/notebook-navigator-sub013/internal/settings"
	"github.com/vroablec/notebook-navigator-sub013/internal/thumbs"
)

// Phase tracks a controller through the snapshot-then-subscribe
// sequence. The snapshot always lands before the subscription, so no
// diff can slip between first paint and the stream.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoaded
	PhaseSubscribed
)

// FileController owns the mutable view state of one mounted file row.
// It folds the cache's sparse diffs into tracked fields and hands the
// renderer memoized derived values. All methods run on the update loop.
//
// The controller survives renames: Detach keeps the tracked fields, so
// a re-Attach under the new path reconciles instead of reloading.
type FileController struct {
	ram  *cache.RAM
	path string

	phase Phase
	unsub func()

	preview     string
	tags        []string
	properties  []notemeta.PropertyItem
	rawNulls    map[string]bool
	imageKey    string
	imageStatus cache.ImageStatus
	wordCount   *int
	tasksOpen   *int

	// metadataVersion moves on any diff touching properties or raw
	// frontmatter. Name and icon memos key on it instead of on the
	// individual tracked fields.
	metadataVersion int

	img *thumbs.Handle

	nameMemo  nameMemo
	iconMemo  iconMemo
	pillMemo  pillMemo
	nameHL    hlMemo
	previewHL hlMemo
}

// NewFileController creates a detached controller over the RAM mirror.
func NewFileController(ram *cache.RAM) *FileController {
	return &FileController{ram: ram}
}

// Path returns the currently attached path, "" when detached.
func (c *FileController) Path() string { return c.path }

// Phase returns the controller's lifecycle phase.
func (c *FileController) Phase() Phase { return c.phase }

// MetadataVersion returns the frontmatter change counter.
func (c *FileController) MetadataVersion() int { return c.metadataVersion }

// Attach binds the controller to a path: synchronous snapshot, then
// subscription, then one more reconcile to close the gap between the
// two. The second reconcile is a no-op unless a diff landed in the
// window. Attaching to the already-attached path just reconciles.
func (c *FileController) Attach(path string) {
	if c.phase == PhaseSubscribed && c.path == path {
		c.reconcile()
		return
	}
	c.Detach()
	c.path = path
	c.reconcile()
	c.phase = PhaseLoaded
	c.unsub = c.ram.Subscribe(path, func(d cache.Diff) { c.Apply(d) })
	c.phase = PhaseSubscribed
	c.reconcile()
}

// Detach drops the subscription and the image handle. Tracked fields
// stay put so a rename can re-Attach without a visible blank frame.
func (c *FileController) Detach() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	c.SetImage(nil)
	c.phase = PhaseUninitialized
	c.path = ""
}

// reconcile folds the current cache record into the controller as a
// minimal diff. Fields already in sync set no bits, so a redundant
// reconcile changes nothing and bumps nothing.
func (c *FileController) reconcile() {
	rec := c.ram.Get(c.path)
	if rec == nil {
		return
	}
	d := cache.Diff{Path: rec.Path}
	if rec.Preview != c.preview {
		d.Changed |= cache.FieldPreview
		d.Preview = rec.Preview
	}
	if !slices.Equal(rec.Tags, c.tags) {
		d.Changed |= cache.FieldTags
		d.Tags = rec.Tags
	}
	if !slices.Equal(rec.Properties, c.properties) {
		d.Changed |= cache.FieldProperties
		d.Properties = rec.Properties
	}
	if !maps.Equal(rec.RawNulls, c.rawNulls) {
		d.Changed |= cache.FieldMetadata
		d.RawNulls = rec.RawNulls
	}
	if rec.FeatureImageKey != c.imageKey || rec.FeatureImageStatus != c.imageStatus {
		d.Changed |= cache.FieldFeatureImage
		d.FeatureImageKey = rec.FeatureImageKey
		d.FeatureImageStatus = rec.FeatureImageStatus
	}
	if !eqCount(rec.WordCount, c.wordCount) {
		d.Changed |= cache.FieldWordCount
		d.WordCount = rec.WordCount
	}
	if !eqCount(rec.TaskUnfinished, c.tasksOpen) {
		d.Changed |= cache.FieldTaskUnfinished
		d.TaskUnfinished = rec.TaskUnfinished
	}
	if !d.Empty() {
		c.Apply(d)
	}
}

// Apply folds one diff into the tracked fields and reports what
// actually changed. Payload fields are equality-checked so duplicate
// deliveries stay no-ops; absent fields never blank state. The
// metadata bit always counts as a change: its payload is partial by
// design (renames carry no comparable value).
func (c *FileController) Apply(d cache.Diff) cache.Field {
	var changed cache.Field
	if d.Has(cache.FieldPreview) && d.Preview != c.preview {
		c.preview = d.Preview
		changed |= cache.FieldPreview
	}
	if d.Has(cache.FieldTags) && !slices.Equal(d.Tags, c.tags) {
		c.tags = d.Tags
		changed |= cache.FieldTags
	}
	if d.Has(cache.FieldProperties) && !slices.Equal(d.Properties, c.properties) {
		c.properties = d.Properties
		changed |= cache.FieldProperties
	}
	if d.Has(cache.FieldMetadata) {
		if d.RawNulls != nil {
			c.rawNulls = d.RawNulls
		}
		changed |= cache.FieldMetadata
	}
	if d.Has(cache.FieldFeatureImage) && (d.FeatureImageKey != c.imageKey || d.FeatureImageStatus != c.imageStatus) {
		if d.FeatureImageKey != c.imageKey {
			c.SetImage(nil) // the held thumbnail no longer matches
		}
		c.imageKey = d.FeatureImageKey
		c.imageStatus = d.FeatureImageStatus
		changed |= cache.FieldFeatureImage
	}
	if d.Has(cache.FieldWordCount) && !eqCount(d.WordCount, c.wordCount) {
		c.wordCount = d.WordCount
		changed |= cache.FieldWordCount
	}
	if d.Has(cache.FieldTaskUnfinished) && !eqCount(d.TaskUnfinished, c.tasksOpen) {
		c.tasksOpen = d.TaskUnfinished
		changed |= cache.FieldTaskUnfinished
	}
	if changed&(cache.FieldProperties|cache.FieldMetadata) != 0 {
		c.metadataVersion++
	}
	return changed
}

func eqCount(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Preview returns the cached preview text.
func (c *FileController) Preview() string { return c.preview }

// Tags returns the note's tags in note order. Callers must not mutate.
func (c *FileController) Tags() []string { return c.tags }

// ImageKey returns the expected feature-image key.
func (c *FileController) ImageKey() string { return c.imageKey }

// ImageStatus returns the feature-image pipeline status.
func (c *FileController) ImageStatus() cache.ImageStatus { return c.imageStatus }

// WordCount returns the body word count, false when unknown.
func (c *FileController) WordCount() (int, bool) {
	if c.wordCount == nil {
		return 0, false
	}
	return *c.wordCount, true
}

// TasksOpen returns the unfinished checkbox count, false when unknown.
func (c *FileController) TasksOpen() (int, bool) {
	if c.tasksOpen == nil {
		return 0, false
	}
	return *c.tasksOpen, true
}

type nameMemo struct {
	version  int
	fallback string
	name     string
	ok       bool
}

// DisplayName prefers a frontmatter title over the file name. The memo
// recomputes when metadataVersion moves or the fallback changes, not on
// every tracked-field update.
func (c *FileController) DisplayName(fallback string) string {
	m := &c.nameMemo
	if m.ok && m.version == c.metadataVersion && m.fallback == fallback {
		return m.name
	}
	name := fallback
	for _, p := range c.properties {
		if strings.EqualFold(p.FieldKey, "title") && strings.TrimSpace(p.Value) != "" {
			name = p.Value
			break
		}
	}
	*m = nameMemo{version: c.metadataVersion, fallback: fallback, name: name, ok: true}
	return name
}

type iconMemo struct {
	version int
	name    string
	ext     string
	custom  string
	task    bool
	icon    string
	ok      bool
}

// EffectiveIcon resolves the row icon via FileIcon, memoized on the
// inputs plus metadataVersion. The custom icon comes from the metadata
// service, resolved upstream with the rest of the row appearance.
func (c *FileController) EffectiveIcon(name, ext, custom string, ic settings.IconSettings) string {
	task := ic.ShowTaskIcon && c.tasksOpen != nil && *c.tasksOpen > 0
	m := &c.iconMemo
	if m.ok && m.version == c.metadataVersion && m.name == name && m.ext == ext && m.custom == custom && m.task == task {
		return m.icon
	}
	icon := FileIcon(name, ext, custom, task, ic)
	*m = iconMemo{version: c.metadataVersion, name: name, ext: ext, custom: custom, task: task, icon: icon, ok: true}
	return icon
}

type pillMemo struct {
	version int
	visible string
	colored bool
	palette uint64
	pills   []Pill
	ok      bool
}

// PropertyPills builds the property badges for the visible keys. The
// result is memoized on metadataVersion, the key set, the sort flag,
// and the palette generation, so steady-state renders reuse the slice.
func (c *FileController) PropertyPills(visible []string, coloredFirst bool, pal *Palette) []Pill {
	vkey := strings.Join(visible, "\x1f")
	m := &c.pillMemo
	if m.ok && m.version == c.metadataVersion && m.visible == vkey && m.colored == coloredFirst && m.palette == pal.Generation() {
		return m.pills
	}
	pills := buildPropertyPills(c.properties, c.rawNulls, visible, coloredFirst, pal)
	*m = pillMemo{
		version: c.metadataVersion,
		visible: vkey,
		colored: coloredFirst,
		palette: pal.Generation(),
		pills:   pills,
		ok:      true,
	}
	return pills
}

// TagPills builds one pill per tag in note order.
func (c *FileController) TagPills(pal *Palette) []Pill {
	if len(c.tags) == 0 {
		return nil
	}
	out := make([]Pill, 0, len(c.tags))
	for _, t := range c.tags {
		out = append(out, Pill{Label: "#" + t, Accent: pal.Tag(t)})
	}
	return out
}

// WordCountPill returns the word-count badge. Zero counts are hidden:
// a zero is ambiguous between a genuinely empty note and a skipped
// content read.
func (c *FileController) WordCountPill(enabled bool) (Pill, bool) {
	if !enabled || c.wordCount == nil || *c.wordCount <= 0 {
		return Pill{}, false
	}
	return Pill{Label: fmt.Sprintf("%dw", *c.wordCount)}, true
}

// TaskPill returns the unfinished-task badge, hidden at zero.
func (c *FileController) TaskPill(enabled bool) (Pill, bool) {
	if !enabled || c.tasksOpen == nil || *c.tasksOpen <= 0 {
		return Pill{}, false
	}
	return Pill{Label: fmt.Sprintf("%s %d", TaskIcon, *c.tasksOpen)}, true
}

type hlMemo struct {
	text  string
	query string
	meta  *highlight.SearchMeta
	out   string
	ok    bool
}

func (m *hlMemo) render(text, query string, meta *highlight.SearchMeta, style lipgloss.Style) string {
	if m.ok && m.text == text && m.query == query && m.meta == meta {
		return m.out
	}
	out := highlight.Render(text, query, meta, style)
	*m = hlMemo{text: text, query: query, meta: meta, out: out, ok: true}
	return out
}

// HighlightedName styles search matches inside the display name. The
// memo keys on text, query, and the meta pointer; the style is the
// theme's match style and changes only with the theme.
func (c *FileController) HighlightedName(name, query string, meta *highlight.SearchMeta, style lipgloss.Style) string {
	return c.nameHL.render(name, query, meta, style)
}

// HighlightedPreview styles search matches inside the preview text.
func (c *FileController) HighlightedPreview(query string, meta *highlight.SearchMeta, style lipgloss.Style) string {
	return c.previewHL.render(c.preview, query, meta, style)
}

// ImageAction says how a row obtains its thumbnail.
type ImageAction int

const (
	// ImageNone shows no image: none recorded, or generation failed.
	ImageNone ImageAction = iota
	// ImageSelf renders the file's own content; the file is an image.
	ImageSelf
	// ImageFetch loads the stored thumbnail blob for Key.
	ImageFetch
	// ImageRegen asks the pipeline to generate a thumbnail for Key.
	// Callers throttle these through thumbs.Limiter.
	ImageRegen
)

// ImagePlan is the feature-image decision for the current state.
type ImagePlan struct {
	Action ImageAction
	Key    string
}

// ImagePlan picks the thumbnail source. Image files render themselves,
// recorded blobs are fetched, unprocessed entries request generation.
// Missing and failed entries stay blank.
func (c *FileController) ImagePlan() ImagePlan {
	switch {
	case notemeta.IsImagePath(c.path):
		return ImagePlan{Action: ImageSelf}
	case c.imageStatus == cache.ImageHas && c.imageKey != "":
		return ImagePlan{Action: ImageFetch, Key: c.imageKey}
	case c.imageStatus == cache.ImageUnprocessed && c.imageKey != "":
		return ImagePlan{Action: ImageRegen, Key: c.imageKey}
	default:
		return ImagePlan{Action: ImageNone}
	}
}

// SetImage installs a decoded thumbnail handle, releasing any prior
// one. Passing nil just drops the current image.
func (c *FileController) SetImage(h *thumbs.Handle) {
	if c.img != nil && c.img != h {
		c.img.Release()
	}
	c.img = h
}

// Image returns the held thumbnail handle, nil when none is loaded.
func (c *FileController) Image() *thumbs.Handle { return c.img }

// Aspect returns the clamped width:height ratio of the loaded image,
// 0 when no image is held.
func (c *FileController) Aspect() float64 {
	if c.img == nil {
		return 0
	}
	return thumbs.ClampAspect(c.img.Bounds())
}

// Layout is the row shape picked by the settings and content.
type Layout int

const (
	// LayoutCompact is the bare title line; date, preview, and image
	// are all disabled.
	LayoutCompact Layout = iota
	// LayoutSingle shows the title plus at most one preview line.
	LayoutSingle
	// LayoutCollapsed is a multi-line row shrunk because it has
	// nothing to fill the extra space with.
	LayoutCollapsed
	// LayoutFull is the full multi-line row.
	LayoutFull
)

// Layout picks the row shape. Multi-line rows collapse only when
// height optimization is on and the row has no preview or pill
// content; rows with content always reserve full height so the list
// does not shift as content streams in.
func (c *FileController) Layout(ls settings.ListSettings) Layout {
	preview := ls.ShowPreview && ls.PreviewLines > 0
	if !ls.ShowDate && !preview && !ls.ShowFeatureImage {
		return LayoutCompact
	}
	if !preview || ls.PreviewLines == 1 {
		return LayoutSingle
	}
	if ls.OptimizeHeight && !c.hasRowContent(ls) {
		return LayoutCollapsed
	}
	return LayoutFull
}

// hasRowContent reports whether anything would occupy the rows beneath
// the title line.
func (c *FileController) hasRowContent(ls settings.ListSettings) bool {
	if strings.TrimSpace(c.preview) != "" {
		return true
	}
	if ls.ShowTagPills && len(c.tags) > 0 {
		return true
	}
	if ls.ShowPropertyPills && c.hasVisibleProperty(ls.PropertyPillFields) {
		return true
	}
	if _, ok := c.WordCountPill(ls.ShowWordCount); ok {
		return true
	}
	if _, ok := c.TaskPill(ls.ShowTaskCounts); ok {
		return true
	}
	return false
}

func (c *FileController) hasVisibleProperty(visible []string) bool {
	if len(visible) == 0 {
		return false
	}
	for _, it := range c.properties {
		for _, k := range visible {
			if !strings.EqualFold(it.FieldKey, k) {
				continue
			}
			if strings.TrimSpace(it.DisplayLabel()) != "" || c.rawNulls[it.FieldKey] {
				return true
			}
		}
	}
	return false
}
