package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/studio/internal/camera"
	"github.com/san-kum/studio/internal/march"
	"github.com/san-kum/studio/internal/renderstate"
)

func vec(v camera.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// toRaylib converts a pane camera. Orthographic raylib cameras take the
// visible height in world units as fovy.
func toRaylib(c camera.Camera) rl.Camera3D {
	if c.Ortho {
		return rl.NewCamera3D(vec(c.Eye), vec(c.Eye.Add(c.Forward)), vec(c.Up), float32(2*c.HalfHeight), rl.CameraOrthographic)
	}
	fovy := float32(camera.FOV * 180 / math.Pi)
	return rl.NewCamera3D(vec(c.Eye), vec(c.Eye.Add(c.Forward)), vec(c.Up), fovy, rl.CameraPerspective)
}

// flatCamera looks down -Z at origin2D with the extent the 2D plane
// mapping gives the pane.
func flatCamera(v renderstate.ViewState, r camera.Rect) camera.Camera {
	pl := camera.PlaneFor(v, r)
	eye := pl.Center.Add(camera.Vec3{Z: camera.BaseDistance})
	return camera.Camera{
		Eye:        eye,
		Forward:    camera.Vec3{Z: -1},
		Right:      camera.Vec3{X: 1},
		Up:         camera.Vec3{Y: 1},
		Ortho:      true,
		HalfHeight: float64(r.H) / pl.Scale / 2,
		Aspect:     r.Aspect(),
	}
}

func (a *App) paneTexture(p camera.Pane) rl.RenderTexture2D {
	tex, ok := a.panes[p.Kind]
	if ok && int(tex.Texture.Width) == p.Rect.W && int(tex.Texture.Height) == p.Rect.H {
		return tex
	}
	if ok {
		rl.UnloadRenderTexture(tex)
	}
	tex = rl.LoadRenderTexture(int32(p.Rect.W), int32(p.Rect.H))
	a.panes[p.Kind] = tex
	return tex
}

func (a *App) unloadPanes() {
	for kind, tex := range a.panes {
		rl.UnloadRenderTexture(tex)
		delete(a.panes, kind)
	}
}

// renderPane draws the scene for one pane into its own texture, so every
// pane gets a projection with its own aspect ratio.
func (a *App) renderPane(p camera.Pane, v renderstate.ViewState) {
	sc := a.opts.Scene
	var cam camera.Camera
	if sc.Flat {
		cam = flatCamera(v, p.Rect)
	} else {
		cam = camera.ForPane(p.Kind, v, sc.Camera, p.Rect.Aspect())
	}

	rl.BeginTextureMode(a.paneTexture(p))
	rl.ClearBackground(paneBackground)
	rl.BeginMode3D(toRaylib(cam))
	if !sc.Flat {
		rl.DrawGrid(20, 1)
	}
	a.drawShape(sc.Shape, camera.Vec3{}, v, cam)
	rl.EndMode3D()
	if len(camera.Layout(v)) > 1 {
		a.drawText(p.Kind.String(), 10, 10, 14, paneLabel)
	}
	rl.EndTextureMode()
}

// blitPane copies a pane texture to the screen. Render textures are stored
// upside down, hence the negative source height. The pane under the cursor
// gets a brighter border.
func (a *App) blitPane(p camera.Pane, hovered bool) {
	tex, ok := a.panes[p.Kind]
	if !ok {
		return
	}
	r := p.Rect
	src := rl.NewRectangle(0, 0, float32(r.W), -float32(r.H))
	rl.DrawTextureRec(tex.Texture, src, rl.NewVector2(float32(r.X), float32(r.Y)), rl.White)
	border := paneBorder
	if hovered {
		border = paneHover
	}
	rl.DrawRectangleLines(int32(r.X), int32(r.Y), int32(r.W), int32(r.H), border)
}

// shade picks a primitive's colour for the render type. The diagnostic
// types colour by distance from the eye.
func shade(pos camera.Vec3, v renderstate.ViewState, cam camera.Camera) rl.Color {
	switch v.RenderType {
	case renderstate.Surfaceless:
		return wireColor
	case renderstate.Convergence, renderstate.Distance:
		d := pos.Sub(cam.Eye).Length() / (2 * camera.ZoomDistance(v.Zoom))
		c := march.ColorAt(v.RenderType, d)
		return rl.NewColor(c.R, c.G, c.B, c.A)
	}
	return solidColor
}

// drawShape approximates a distance function with raylib primitives.
func (a *App) drawShape(s march.Shape, offset camera.Vec3, v renderstate.ViewState, cam camera.Camera) {
	wire := v.RenderType == renderstate.Surfaceless
	t := float64(v.Time)

	switch sh := s.(type) {
	case march.Union:
		for _, child := range sh {
			a.drawShape(child, offset, v, cam)
		}
	case march.SmoothUnion:
		a.drawShape(sh.A, offset, v, cam)
		a.drawShape(sh.B, offset, v, cam)
	case march.Translate:
		a.drawShape(sh.Shape, offset.Add(sh.Offset), v, cam)
	case march.Bob:
		dy := sh.Amplitude * math.Sin(sh.Speed*t)
		a.drawShape(sh.Shape, offset.Add(camera.Vec3{Y: dy}), v, cam)
	case march.Sphere:
		pos := sh.Center.Add(offset)
		col := shade(pos, v, cam)
		if wire {
			rl.DrawSphereWires(vec(pos), float32(sh.Radius), 12, 12, col)
		} else {
			rl.DrawSphere(vec(pos), float32(sh.Radius), col)
		}
	case march.Box:
		pos := sh.Center.Add(offset)
		col := shade(pos, v, cam)
		size := sh.Half.Scale(2)
		if wire {
			rl.DrawCubeWires(vec(pos), float32(size.X), float32(size.Y), float32(size.Z), col)
		} else {
			rl.DrawCube(vec(pos), float32(size.X), float32(size.Y), float32(size.Z), col)
		}
	case march.Torus:
		pos := sh.Center.Add(offset)
		col := shade(pos, v, cam)
		const rings = 16
		for i := 0; i < rings; i++ {
			ang := 2 * math.Pi * float64(i) / rings
			ring := pos.Add(camera.Vec3{Y: sh.Minor * math.Sin(ang)})
			radius := float32(sh.Major + sh.Minor*math.Cos(ang))
			rl.DrawCircle3D(vec(ring), radius, rl.NewVector3(1, 0, 0), 90, col)
		}
	case march.Ground:
		rl.DrawPlane(rl.NewVector3(float32(offset.X), float32(sh.Height+offset.Y), float32(offset.Z)), rl.NewVector2(40, 40), floorColor)
	case march.Circle:
		pos := sh.Center.Add(offset)
		rl.DrawCircle3D(vec(pos), float32(sh.Radius), rl.NewVector3(0, 0, 1), 0, shade(pos, v, cam))
	}
}
