// glbtool prints what a GLB or glTF file contains without opening a window.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/glbstudio/internal/engine/animation"
	"github.com/Faultbox/glbstudio/internal/engine/loader"
	"github.com/Faultbox/glbstudio/internal/viewer/introspect"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "nodes":
		cmdNodes(args)
	case "materials", "mats":
		cmdList(args, "materials", func(r introspect.Result) []string { return r.MaterialNames })
	case "textures", "tex":
		cmdList(args, "textures", func(r introspect.Result) []string { return r.TextureNames })
	case "anims", "clips":
		cmdAnims(args)
	case "skeletons", "skel":
		cmdSkeletons(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`glbtool - GLB/glTF model inspector

Usage:
  glbtool <command> <file.glb>

Commands:
  info <file>        Show a summary of the model
  nodes <file>       List named nodes with their initial transforms
  materials <file>   List material names
  textures <file>    List texture names
  anims <file>       List animation clips and durations
  skeletons <file>   List skeletons, bones and skinned meshes

Examples:
  glbtool info robot.glb
  glbtool anims character.gltf`)
}

func open(args []string, usage string) *loader.Model {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: glbtool %s <file.glb>\n", usage)
		os.Exit(1)
	}
	m, err := loader.Load(args[0], nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return m
}

func cmdInfo(args []string) {
	m := open(args, "info")
	defer m.Dispose()
	r := introspect.Introspect(m.Root)

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Nodes:      %d\n", len(r.NodeNames))
	fmt.Printf("Materials:  %d\n", len(r.MaterialNames))
	fmt.Printf("Textures:   %d\n", len(r.TextureNames))
	fmt.Printf("Skeletons:  %d\n", len(r.SkeletonNames))
	fmt.Printf("Animations: %d\n", len(m.Clips))
	if len(m.Clips) > 0 {
		fmt.Printf("            %s\n", strings.Join(animation.Names(m.Clips), ", "))
	}
}

func cmdNodes(args []string) {
	m := open(args, "nodes")
	defer m.Dispose()
	r := introspect.Introspect(m.Root)

	fmt.Printf("%-32s %-8s %-28s %s\n", "NAME", "VISIBLE", "POSITION", "SCALE")
	for _, name := range r.NodeNames {
		t := r.InitialTransforms[name]
		pos := fmt.Sprintf("(%.3f, %.3f, %.3f)", t.Position.X, t.Position.Y, t.Position.Z)
		fmt.Printf("%-32s %-8t %-28s %.3f\n", name, t.Visible, pos, t.Scale)
	}
}

func cmdList(args []string, what string, pick func(introspect.Result) []string) {
	m := open(args, what)
	defer m.Dispose()

	names := pick(introspect.Introspect(m.Root))
	for _, name := range names {
		fmt.Println(name)
	}
	fmt.Printf("\n%d %s\n", len(names), what)
}

func cmdAnims(args []string) {
	m := open(args, "anims")
	defer m.Dispose()

	for _, c := range m.Clips {
		fmt.Printf("%-32s %8.3fs %4d tracks\n", c.Name, c.Duration, len(c.Tracks))
	}
	fmt.Printf("\n%d animations\n", len(m.Clips))
}

func cmdSkeletons(args []string) {
	m := open(args, "skeletons")
	defer m.Dispose()

	refs := introspect.MatchSkeletons(m.Root, "")
	for _, ref := range refs {
		var bones []string
		for _, b := range ref.Skeleton.Bones {
			if b.Name != "" {
				bones = append(bones, b.Name)
			}
		}
		sort.Strings(bones)

		var meshes []string
		for _, v := range ref.Meshes {
			meshes = append(meshes, v.Node().Name)
		}

		fmt.Printf("%s\n", ref.Name)
		fmt.Printf("  bones (%d):  %s\n", len(bones), strings.Join(bones, ", "))
		fmt.Printf("  meshes (%d): %s\n", len(meshes), strings.Join(meshes, ", "))
	}
	fmt.Printf("\n%d skeletons\n", len(refs))
}
