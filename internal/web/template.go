package web

// formTemplate is the upload page. It is deliberately self-contained:
// no static assets, no client-side scripting.
const formTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>stencilgen</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; padding: 0 1rem; }
fieldset { margin-bottom: 1rem; }
label { display: block; margin: 0.4rem 0; }
input[type=number] { width: 6rem; }
.error { color: #b00020; border: 1px solid #b00020; padding: 0.5rem; margin-bottom: 1rem; }
.warning { color: #8a6d00; }
</style>
</head>
<body>
<h1>Solder stencil generator</h1>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{range .Warnings}}<p class="warning">{{.}}</p>{{end}}
<form method="post" enctype="multipart/form-data">
<fieldset>
<legend>Drawings</legend>
<label>Board outline (optional): <input type="file" name="outline"></label>
<label>Solder paste: <input type="file" name="paste" required></label>
</fieldset>
<fieldset>
<legend>Stencil</legend>
<label>Thickness (mm): <input type="number" name="thickness" step="0.05" value="{{.Config.Thickness}}"></label>
<label>Hole size increase (mm): <input type="number" name="hole_increase" step="0.05" value="{{.Config.HoleSizeIncrease}}"></label>
<label><input type="checkbox" name="flip" {{if .Config.FlipStencil}}checked{{end}}> Flip for bottom layer</label>
</fieldset>
<fieldset>
<legend>Ledge</legend>
<label><input type="checkbox" name="ledge" {{if .Config.LedgeEnabled}}checked{{end}}> Add positioning ledge</label>
<label><input type="checkbox" name="full_perimeter" {{if .Config.LedgeFullPerimeter}}checked{{end}}> Full perimeter</label>
<label>Ledge thickness (mm): <input type="number" name="ledge_thickness" step="0.1" value="{{.Config.LedgeThickness}}"></label>
<label>Gap (mm): <input type="number" name="gap" step="0.05" value="{{.Config.Gap}}"></label>
</fieldset>
<fieldset>
<legend>Frame (instead of ledge)</legend>
<label><input type="checkbox" name="frame" {{if .Config.FrameEnabled}}checked{{end}}> Add rectangular frame</label>
<label>Frame width (mm): <input type="number" name="frame_width" step="1" value="{{.Config.FrameWidth}}"></label>
<label>Frame height (mm): <input type="number" name="frame_height" step="1" value="{{.Config.FrameHeight}}"></label>
<label>Frame thickness (mm): <input type="number" name="frame_thickness" step="0.1" value="{{.Config.FrameThickness}}"></label>
</fieldset>
<fieldset>
<legend>Outline-less mode</legend>
<label>Width (mm, 0 = from paste): <input type="number" name="width" step="1" value="{{.Config.StencilWidth}}"></label>
<label>Height (mm, 0 = from paste): <input type="number" name="height" step="1" value="{{.Config.StencilHeight}}"></label>
<label>Margin (mm): <input type="number" name="margin" step="0.5" value="{{.Config.StencilMargin}}"></label>
</fieldset>
<button type="submit">Generate STL</button>
</form>
</body>
</html>
`
