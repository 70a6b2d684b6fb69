// Package workload implements the render backends that draw the asteroid
// belt. Two workloads share one GPU device: the basic workload submits each
// frame synchronously, the queued workload buffers several frames in flight
// and fans the simulation update across a worker pool. Exactly one workload
// holds a configured swap chain at a time; switching backends releases the
// old swap chain before the new one is resized.
package workload

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/meteor/common"
	"github.com/Carmen-Shannon/meteor/engine/sim"
)

// GPU owns the shared WebGPU objects: instance, surface, adapter, device and
// queue. Both workloads allocate their pipelines and buffers from the same
// GPU so that switching backends never tears the device down.
type GPU struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
}

// NewGPU creates the shared GPU context against the given window surface.
//
// Parameters:
//   - surfaceDescriptor: platform surface descriptor from the window
//   - forceFallbackAdapter: request the software rasterizer adapter
//
// Returns:
//   - *GPU: the shared GPU context
//   - error: adapter or device acquisition failure
func NewGPU(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool) (*GPU, error) {
	runtime.LockOSThread()

	g := &GPU{
		mu:       &sync.Mutex{},
		instance: wgpu.CreateInstance(nil),
	}
	g.surface = g.instance.CreateSurface(surfaceDescriptor)

	adapter, err := g.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    g.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	g.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	g.device = device
	g.queue = device.GetQueue()

	capabilities := g.surface.GetCapabilities(g.adapter)
	g.surfaceFormat = capabilities.Formats[0]

	return g, nil
}

// Device returns the shared logical device.
func (g *GPU) Device() *wgpu.Device {
	return g.device
}

// Queue returns the shared submission queue.
func (g *GPU) Queue() *wgpu.Queue {
	return g.queue
}

// configureSwapChain (re)configures the window surface at the given size and
// present mode and creates a matching depth texture. The returned swap chain
// owns the cached render pass descriptor used by every frame.
func (g *GPU) configureSwapChain(width, height int, vsync bool) (*swapChain, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	capabilities := g.surface.GetCapabilities(g.adapter)

	presentMode := wgpu.PresentModeImmediate
	if vsync {
		presentMode = wgpu.PresentModeFifo
	}

	g.surface.Configure(g.adapter, g.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      g.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	depthTexture, err := g.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("create depth texture: %w", err)
	}
	depthView, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		return nil, fmt.Errorf("create depth view: %w", err)
	}

	sc := &swapChain{
		gpu:          g,
		width:        width,
		height:       height,
		vsync:        vsync,
		depthTexture: depthTexture,
		depthView:    depthView,
		passDescriptor: &wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{
				{
					View:   nil, // set per-frame to the swapchain view
					LoadOp: wgpu.LoadOpClear,
					StoreOp: wgpu.StoreOpStore,
					ClearValue: wgpu.Color{
						R: 0.01, G: 0.01, B: 0.03, A: 1.0,
					},
				},
			},
			DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
				View:         depthView,
				DepthLoadOp:  wgpu.LoadOpClear,
				DepthStoreOp: wgpu.StoreOpDiscard,
				// Reversed-Z: far clears to 0 and closer fragments win with
				// a greater compare.
				DepthClearValue: 0.0,
			},
		},
	}
	return sc, nil
}

// swapChain is a configured surface plus its depth attachment. Only the
// active workload holds one.
type swapChain struct {
	gpu *GPU

	width  int
	height int
	vsync  bool

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	passDescriptor *wgpu.RenderPassDescriptor
}

// release drops the depth attachment. The surface itself stays alive so the
// next workload can reconfigure it.
func (sc *swapChain) release() {
	if sc.depthView != nil {
		sc.depthView.Release()
		sc.depthView = nil
	}
	if sc.depthTexture != nil {
		sc.depthTexture.Release()
		sc.depthTexture = nil
	}
}

// frame is one in-flight frame: the acquired surface image, its view, and
// the open command encoder and render pass.
type frame struct {
	surfaceTexture *wgpu.Texture
	view           *wgpu.TextureView
	encoder        *wgpu.CommandEncoder
	pass           *wgpu.RenderPassEncoder
}

// beginFrame acquires the next surface image and opens a render pass that
// clears color and depth.
func (sc *swapChain) beginFrame() (*frame, error) {
	surfaceTexture, err := sc.gpu.surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("acquire surface texture: %w", err)
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return nil, fmt.Errorf("create surface view: %w", err)
	}

	encoder, err := sc.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return nil, fmt.Errorf("create command encoder: %w", err)
	}

	sc.passDescriptor.ColorAttachments[0].View = view
	pass := encoder.BeginRenderPass(sc.passDescriptor)

	return &frame{
		surfaceTexture: surfaceTexture,
		view:           view,
		encoder:        encoder,
		pass:           pass,
	}, nil
}

// submit ends the render pass and submits the command buffer, returning the
// queue submission index for frames-in-flight tracking. When submit is
// false the encoded commands are discarded without reaching the queue. The
// frame must still be presented afterwards, even on error, to hand the
// surface texture back.
func (f *frame) submit(queue *wgpu.Queue, submit bool) (wgpu.SubmissionIndex, bool, error) {
	f.pass.End()

	commandBuffer, err := f.encoder.Finish(nil)
	f.encoder.Release()
	f.encoder = nil
	f.pass = nil
	if err != nil {
		return 0, false, fmt.Errorf("finish command encoder: %w", err)
	}

	var index wgpu.SubmissionIndex
	if submit {
		index = queue.Submit(commandBuffer)
	}
	commandBuffer.Release()
	return index, submit, nil
}

// present shows the frame and releases the surface references.
func (f *frame) present(surface *wgpu.Surface) {
	surface.Present()
	f.view.Release()
	f.view = nil
	f.surfaceTexture.Release()
	f.surfaceTexture = nil
}

// beltPipeline is the instanced render pipeline plus the GPU resources every
// workload needs to draw the belt: mesh buffers, the per-instance storage
// buffer and the view-projection uniform.
type beltPipeline struct {
	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup

	vertexBuffer   *wgpu.Buffer
	indexBuffer    *wgpu.Buffer
	indexCount     uint32
	instanceBuffer *wgpu.Buffer
	uniformBuffer  *wgpu.Buffer
}

// newBeltPipeline compiles the belt shader and allocates all draw resources
// sized for the given simulation.
func (g *GPU) newBeltPipeline(label string, s sim.Simulation) (*beltPipeline, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	module, err := g.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: beltShaderWGSL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}
	defer module.Release()

	bindGroupLayout, err := g.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: label + " Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 64,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	pipelineLayout, err := g.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	var vertexStride uint64 = 32 // [3]float32 position, pad, [3]float32 normal, pad
	pipeline, err := g.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 16, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    g.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			// Reversed-Z pairs with the projection's swapped planes.
			DepthCompare: wgpu.CompareFunctionGreater,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}

	p := &beltPipeline{
		pipeline:        pipeline,
		bindGroupLayout: bindGroupLayout,
	}

	vertices, indices := s.Mesh()
	vertexData := common.SliceToBytes(vertices)
	indexData := common.SliceToBytes(indices)

	p.vertexBuffer, err = g.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	g.queue.WriteBuffer(p.vertexBuffer, 0, vertexData)

	p.indexBuffer, err = g.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create index buffer: %w", err)
	}
	g.queue.WriteBuffer(p.indexBuffer, 0, indexData)
	p.indexCount = uint32(len(indices))

	p.instanceBuffer, err = g.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Instance Buffer",
		Size:  uint64(len(common.SliceToBytes(s.Instances()))),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create instance buffer: %w", err)
	}

	p.uniformBuffer, err = g.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Uniform Buffer",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}

	p.bindGroup, err = g.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.uniformBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: p.instanceBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}

	return p, nil
}

// upload pushes the frame's view-projection matrix and rebuilt instance data
// to the GPU.
func (p *beltPipeline) upload(queue *wgpu.Queue, viewProjection [16]float32, instances []sim.Instance) {
	queue.WriteBuffer(p.uniformBuffer, 0, common.StructToBytes(&viewProjection))
	queue.WriteBuffer(p.instanceBuffer, 0, common.SliceToBytes(instances))
}

// draw encodes the instanced belt draw into the pass.
func (p *beltPipeline) draw(pass *wgpu.RenderPassEncoder, instanceCount uint32) {
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.SetVertexBuffer(0, p.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(p.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(p.indexCount, instanceCount, 0, 0, 0)
}

// drawIndirect encodes the belt draw reading its arguments from the given
// indirect buffer.
func (p *beltPipeline) drawIndirect(pass *wgpu.RenderPassEncoder, indirectBuffer *wgpu.Buffer) {
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, p.bindGroup, nil)
	pass.SetVertexBuffer(0, p.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(p.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexedIndirect(indirectBuffer, 0)
}

// release frees all pipeline resources.
func (p *beltPipeline) release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	if p.uniformBuffer != nil {
		p.uniformBuffer.Release()
	}
	if p.instanceBuffer != nil {
		p.instanceBuffer.Release()
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
}
