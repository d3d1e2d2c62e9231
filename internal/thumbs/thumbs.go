// Package thumbs owns the feature-image pipeline: resolving embed targets
// to vault attachments, generating downscaled thumbnail blobs into the
// cache store, sharing decoded pixels between rows through refcounted
// handles, and throttling regeneration so a broken reference cannot spin.
//
// Generation and decoding run inside tea Cmds; attachment resolution reads
// the vault tree and therefore stays on the update loop.
package thumbs

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
	"github.com/vroablec/notebook-navigator-sub013/internal/vault"
)

// thumbMaxDim bounds both thumbnail dimensions; blobs stay a few KB and
// decode instantly on acquire.
const thumbMaxDim = 256

// Verdict is the outcome of one generation attempt. It feeds back into the
// indexer as the record's image status, which turns into a diff for the
// affected row.
type Verdict struct {
	Path   string
	Key    string
	Status cache.ImageStatus
}

// ResolveAttachment maps an embed target to a vault file. An exact
// vault-relative path wins, then a path relative to the note's folder,
// then the shortest path whose base name matches, which is how wiki embeds
// are usually written.
func ResolveAttachment(v *vault.Vault, notePath, target string) *vault.File {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil
	}
	if f := v.FileByPath(target); f != nil {
		return f
	}
	if dir := path.Dir(notePath); dir != "." && dir != "" {
		if f := v.FileByPath(path.Join(dir, target)); f != nil {
			return f
		}
	}
	if strings.ContainsRune(target, '/') {
		return nil
	}
	base := strings.ToLower(target)
	var best *vault.File
	for _, f := range v.AllFiles() {
		if strings.ToLower(f.Name) != base {
			continue
		}
		if best == nil || len(f.Path) < len(best.Path) {
			best = f
		}
	}
	return best
}

// Generate builds and stores the thumbnail blob for one note's feature
// image. srcAbs is the resolved attachment path, empty when resolution
// found nothing. Failures never propagate as errors: the verdict records
// missing or failed and the row degrades to no image.
func Generate(store *cache.Store, notePath, key, srcAbs string) Verdict {
	v := Verdict{Path: notePath, Key: key, Status: cache.ImageFailed}
	if srcAbs == "" {
		v.Status = cache.ImageMissing
		return v
	}
	data, err := os.ReadFile(srcAbs)
	if err != nil {
		if os.IsNotExist(err) {
			v.Status = cache.ImageMissing
		}
		return v
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return v
	}
	thumb := resize.Thumbnail(thumbMaxDim, thumbMaxDim, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return v
	}
	if err := store.PutThumb(notePath, key, buf.Bytes()); err != nil {
		return v
	}
	v.Status = cache.ImageHas
	return v
}

// String implements fmt.Stringer for logs.
func (v Verdict) String() string {
	return fmt.Sprintf("%s %s -> %s", v.Path, v.Key, v.Status)
}
