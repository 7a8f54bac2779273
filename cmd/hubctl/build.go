package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fiddotdev/hub-go/hexutil"
	"github.com/fiddotdev/hub-go/message"
	"github.com/fiddotdev/hub-go/protocol"
)

type buildFunc func(opts message.MessageDataOptions, signer message.Signer) (*protocol.Message, error)

// signAndEmit is the shared tail of every message-building command.
func signAndEmit(name string, c *common, sf *signerFlags, of *outputFlags, out, errOut io.Writer, build buildFunc) int {
	if err := c.load(errOut); err != nil {
		return exitCode(errOut, name, err)
	}
	opts, signer, err := sf.resolve(c.cfg)
	if err != nil {
		return exitCode(errOut, name, err)
	}
	msg, err := build(opts, signer)
	if err != nil {
		return exitCode(errOut, name, err)
	}
	if err := of.emit(context.Background(), c, msg, out); err != nil {
		return exitCode(errOut, name, err)
	}
	return 0
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// mentionList is a repeatable "fid:position" flag.
type mentionList struct {
	fids      []uint64
	positions []uint32
}

func (m *mentionList) String() string {
	parts := make([]string, len(m.fids))
	for i := range m.fids {
		parts[i] = fmt.Sprintf("%d:%d", m.fids[i], m.positions[i])
	}
	return strings.Join(parts, ",")
}

func (m *mentionList) Set(v string) error {
	fidStr, posStr, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("mention must be fid:position, got %q", v)
	}
	fid, err := strconv.ParseUint(fidStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid mention fid %q", fidStr)
	}
	pos, err := strconv.ParseUint(posStr, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid mention position %q", posStr)
	}
	m.fids = append(m.fids, fid)
	m.positions = append(m.positions, uint32(pos))
	return nil
}

// castID builds a CastID from flag values; it returns nil when fid is zero.
func castID(fid uint64, hashHex string) (*protocol.CastID, error) {
	if fid == 0 {
		if hashHex != "" {
			return nil, fmt.Errorf("%w: cast hash given without fid", errUsage)
		}
		return nil, nil
	}
	hash, err := hexutil.HexToBytes(hashHex)
	if err != nil || len(hash) != message.HashLength {
		return nil, fmt.Errorf("%w: cast hash must be %d bytes of hex", errUsage, message.HashLength)
	}
	return &protocol.CastID{FID: fid, Hash: hash}, nil
}

func cmdMakeCast(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("make-cast", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	sf := addSignerFlags(fs)
	of := addOutputFlags(fs)
	text := fs.String("text", "", "Cast text")
	parentURL := fs.String("parent-url", "", "Reply to a URL (channel)")
	parentFID := fs.Uint64("parent-fid", 0, "Reply to a cast by this fid")
	parentHash := fs.String("parent-hash", "", "Hash of the parent cast (hex)")
	var embeds stringList
	var mentions mentionList
	fs.Var(&embeds, "embed", "Embed URL (repeatable)")
	fs.Var(&mentions, "mention", "Mention as fid:position (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *text == "" && len(embeds) == 0 {
		fmt.Fprintln(errOut, "missing --text or --embed")
		return 2
	}
	parent, err := castID(*parentFID, *parentHash)
	if err != nil {
		return exitCode(errOut, "make-cast", err)
	}
	if parent != nil && *parentURL != "" {
		fmt.Fprintln(errOut, "--parent-url cannot be combined with --parent-fid")
		return 2
	}

	body := &protocol.CastAddBody{
		Text:              *text,
		Mentions:          mentions.fids,
		MentionsPositions: mentions.positions,
		ParentCastID:      parent,
		ParentURL:         *parentURL,
	}
	for _, u := range embeds {
		body.Embeds = append(body.Embeds, &protocol.Embed{URL: u})
	}
	return signAndEmit("make-cast", c, sf, of, out, errOut, func(opts message.MessageDataOptions, signer message.Signer) (*protocol.Message, error) {
		return message.MakeCastAdd(body, opts, signer)
	})
}

func cmdRemoveCast(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("remove-cast", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	sf := addSignerFlags(fs)
	of := addOutputFlags(fs)
	hashHex := fs.String("hash", "", "Hash of the cast to remove (hex)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	hash, err := hexutil.HexToBytes(*hashHex)
	if *hashHex == "" || err != nil || len(hash) != message.HashLength {
		fmt.Fprintf(errOut, "--hash must be %d bytes of hex\n", message.HashLength)
		return 2
	}
	body := &protocol.CastRemoveBody{TargetHash: hash}
	return signAndEmit("remove-cast", c, sf, of, out, errOut, func(opts message.MessageDataOptions, signer message.Signer) (*protocol.Message, error) {
		return message.MakeCastRemove(body, opts, signer)
	})
}

func cmdReact(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("react", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	sf := addSignerFlags(fs)
	of := addOutputFlags(fs)
	kind := fs.String("type", "like", "Reaction type: like or recast")
	targetURL := fs.String("target-url", "", "URL being reacted to")
	targetFID := fs.Uint64("target-fid", 0, "Author fid of the target cast")
	targetHash := fs.String("target-hash", "", "Hash of the target cast (hex)")
	remove := fs.Bool("remove", false, "Remove the reaction instead of adding it")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	reactionType, err := protocol.ParseReactionType(*kind)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	target, err := castID(*targetFID, *targetHash)
	if err != nil {
		return exitCode(errOut, "react", err)
	}
	if (target == nil) == (*targetURL == "") {
		fmt.Fprintln(errOut, "exactly one of --target-url or --target-fid/--target-hash is required")
		return 2
	}

	body := &protocol.ReactionBody{Type: reactionType, TargetCastID: target, TargetURL: *targetURL}
	build := message.MakeReactionAdd
	if *remove {
		build = message.MakeReactionRemove
	}
	return signAndEmit("react", c, sf, of, out, errOut, func(opts message.MessageDataOptions, signer message.Signer) (*protocol.Message, error) {
		return build(body, opts, signer)
	})
}

func cmdFollow(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("follow", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	sf := addSignerFlags(fs)
	of := addOutputFlags(fs)
	targetFID := fs.Uint64("target-fid", 0, "Fid to follow")
	linkType := fs.String("link-type", "follow", "Link type")
	remove := fs.Bool("remove", false, "Unfollow instead of follow")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *targetFID == 0 {
		fmt.Fprintln(errOut, "missing --target-fid")
		return 2
	}

	body := &protocol.LinkBody{Type: *linkType, TargetFID: *targetFID}
	build := message.MakeLinkAdd
	if *remove {
		build = message.MakeLinkRemove
	}
	return signAndEmit("follow", c, sf, of, out, errOut, func(opts message.MessageDataOptions, signer message.Signer) (*protocol.Message, error) {
		return build(body, opts, signer)
	})
}

func cmdSetUserData(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("set-user-data", flag.ContinueOnError)
	fs.SetOutput(errOut)
	c := addCommon(fs)
	sf := addSignerFlags(fs)
	of := addOutputFlags(fs)
	kind := fs.String("type", "", "Field: pfp, display, bio, url or username")
	value := fs.String("value", "", "New value")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	dataType, err := protocol.ParseUserDataType(*kind)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	body := &protocol.UserDataBody{Type: dataType, Value: *value}
	return signAndEmit("set-user-data", c, sf, of, out, errOut, func(opts message.MessageDataOptions, signer message.Signer) (*protocol.Message, error) {
		return message.MakeUserDataAdd(body, opts, signer)
	})
}
