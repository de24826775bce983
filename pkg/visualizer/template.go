package visualizer

// The artifact is one self-contained page: the graph payload is embedded
// inline and the only external reference is the markdown runtime, loaded by
// URL. When that load fails the detail panel falls back to escaped plain
// text, so the artifact stays readable offline.
const markdownRuntimeURL = "https://cdn.jsdelivr.net/npm/marked/marked.min.js"

const artifactHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Conversation Visualization - {{.Title}}</title>
    <script src="{{.MarkdownRuntimeURL}}"></script>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif;
            height: 100vh;
            overflow: hidden;
        }

        .container {
            display: flex;
            flex-direction: column;
            height: 100vh;
        }

        .graph-panel {
            flex: 0 0 40%;
            background: white;
            padding: 20px;
            overflow: auto;
            min-height: 120px;
        }

        .graph-panel:focus {
            outline: none;
        }

        .resize-handle {
            height: 4px;
            background: #ddd;
            cursor: row-resize;
            flex-shrink: 0;
            position: relative;
            transition: background 0.2s;
        }

        .resize-handle:hover {
            background: #999;
        }

        .resize-handle::before {
            content: '';
            position: absolute;
            top: -2px;
            left: 0;
            height: 8px;
            width: 100%;
            cursor: row-resize;
        }

        .details-panel {
            flex: 1 1 auto;
            background: #f5f5f5;
            padding: 20px;
            overflow-y: auto;
            min-height: 120px;
        }

        .header {
            margin-bottom: 20px;
            padding-bottom: 10px;
            border-bottom: 2px solid #333;
        }

        .node-details {
            background: white;
            border-radius: 8px;
            padding: 15px;
            margin-bottom: 15px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }

        .node-details h3 {
            margin-bottom: 10px;
            color: #333;
        }

        .content-block {
            background: #f9f9f9;
            padding: 15px;
            border-radius: 4px;
            margin: 10px 0;
            word-wrap: break-word;
            font-size: 13px;
            line-height: 1.6;
        }

        .content-block pre {
            background: #2d2d2d;
            color: #f8f8f2;
            padding: 15px;
            border-radius: 4px;
            overflow-x: auto;
            margin: 10px 0;
            font-family: 'Monaco', 'Menlo', 'Ubuntu Mono', 'Consolas', monospace;
            font-size: 13px;
            line-height: 1.5;
        }

        .content-block code {
            background: #e0e0e0;
            padding: 2px 6px;
            border-radius: 3px;
            font-family: 'Monaco', 'Menlo', 'Ubuntu Mono', 'Consolas', monospace;
            font-size: 12px;
        }

        .content-block pre code {
            background: transparent;
            padding: 0;
            color: #f8f8f2;
            font-size: 13px;
            white-space: pre;
        }

        .content-block ul, .content-block ol {
            margin-left: 20px;
        }

        .content-block p {
            margin: 8px 0;
        }

        .tool-input-box {
            background: #e3f2fd;
            border-left: 3px solid #2196F3;
            padding: 5px;
            border-radius: 4px;
            margin: 10px 0;
        }

        .tool-result-box {
            background: #f1f8e9;
            border-left: 3px solid #4CAF50;
            padding: 5px;
            border-radius: 4px;
            margin: 10px 0;
        }

        .tool-result-box.error {
            background: #ffebee;
            border-left-color: #F44336;
        }

        /* Graph: left to right by order index, tool calls offset below the
           conversational backbone. */
        .graph {
            display: flex;
            flex-direction: row;
            align-items: flex-start;
            gap: 10px;
            padding: 40px 20px;
            width: max-content;
        }

        .graph-column {
            display: flex;
            flex-direction: column;
            align-items: center;
        }

        .graph-node {
            min-width: 160px;
            max-width: 260px;
            padding: 12px 16px;
            border-radius: 8px;
            cursor: pointer;
            transition: all 0.2s;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            word-wrap: break-word;
        }

        .graph-node:hover {
            transform: translateY(-2px);
            box-shadow: 0 4px 8px rgba(0,0,0,0.2);
        }

        .graph-node.active {
            border-width: 3px;
            box-shadow: 0 4px 12px rgba(33, 150, 243, 0.4);
        }

        .node-user_turn {
            background: #E3F2FD;
            border: 2px solid #2196F3;
        }

        .node-assistant_text,
        .node-final_response {
            background: #E8F5E9;
            border: 2px solid #4CAF50;
        }

        .node-tool_call {
            background: #FFF3E0;
            border: 2px solid #FF9800;
            margin-top: 60px;
        }

        .graph-node.role-system {
            background: #FFEBEE;
            border-color: #F44336;
        }

        .graph-node.flagged {
            border-style: dashed;
        }

        .node-kind {
            font-size: 11px;
            text-transform: uppercase;
            letter-spacing: 0.5px;
            color: #666;
            margin-bottom: 6px;
        }

        .node-label {
            font-weight: bold;
            font-size: 13px;
        }

        .node-flag {
            font-size: 11px;
            color: #c62828;
            margin-top: 6px;
        }

        .arrow-horizontal {
            width: 32px;
            height: 2px;
            background: #999;
            position: relative;
            margin-top: 60px;
            flex-shrink: 0;
        }

        .arrow-horizontal::after {
            content: '';
            position: absolute;
            right: 0;
            top: -4px;
            width: 0;
            height: 0;
            border-left: 8px solid #999;
            border-top: 5px solid transparent;
            border-bottom: 5px solid transparent;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="graph-panel" id="graph-panel" tabindex="0">
            <div id="graph-container" class="graph"></div>
        </div>

        <div class="resize-handle" id="resize-handle"></div>

        <div class="details-panel" id="details-panel">
            <div class="header">
                <h1>Conversation Details</h1>
                <p><strong>Agent:</strong> <span id="agent-name"></span></p>
                <p><strong>Timestamp:</strong> <span id="timestamp"></span></p>
                <p><strong>Nodes:</strong> <span id="node-count"></span></p>
            </div>
            <div id="node-details-container">
                <p>Click a node to view details</p>
            </div>
        </div>
    </div>

    <script>
        const vizData = {{.JSONData}};

        const resizeHandle = document.getElementById('resize-handle');
        const graphPanel = document.getElementById('graph-panel');
        const detailsPanel = document.getElementById('details-panel');

        let isResizing = false;
        let startY = 0;
        let startGraphHeight = 0;

        resizeHandle.addEventListener('mousedown', (e) => {
            isResizing = true;
            startY = e.clientY;
            startGraphHeight = graphPanel.offsetHeight;
            document.body.style.cursor = 'row-resize';
            document.body.style.userSelect = 'none';
            e.preventDefault();
        });

        document.addEventListener('mousemove', (e) => {
            if (!isResizing) return;
            const minHeight = 120;
            let newHeight = startGraphHeight + (e.clientY - startY);
            if (newHeight < minHeight) newHeight = minHeight;
            graphPanel.style.flex = '0 0 ' + newHeight + 'px';
            e.preventDefault();
        });

        document.addEventListener('mouseup', () => {
            if (isResizing) {
                isResizing = false;
                document.body.style.cursor = '';
                document.body.style.userSelect = '';
            }
        });

        let currentNodeIndex = 0;

        document.getElementById('agent-name').textContent = vizData.metadata.agent_name;
        document.getElementById('timestamp').textContent = vizData.metadata.timestamp || '-';
        document.getElementById('node-count').textContent = vizData.metadata.node_count;

        document.addEventListener('keydown', (e) => {
            if (e.key === 'ArrowRight') {
                e.preventDefault();
                if (currentNodeIndex < vizData.nodes.length - 1) {
                    selectNode(currentNodeIndex + 1);
                }
            } else if (e.key === 'ArrowLeft') {
                e.preventDefault();
                if (currentNodeIndex > 0) {
                    selectNode(currentNodeIndex - 1);
                }
            }
        });

        function selectNode(index) {
            currentNodeIndex = index;
            const node = vizData.nodes[index];
            showNodeDetails(node);
            const el = document.querySelector('[data-node-id="' + node.id + '"]');
            if (el) {
                el.scrollIntoView({ behavior: 'smooth', block: 'nearest', inline: 'center' });
            }
        }

        function kindTitle(node) {
            if (node.kind === 'user_turn') {
                return node.initial ? 'Initial Request' : 'User Turn';
            }
            if (node.kind === 'tool_call') {
                return node.unmatched ? 'Unmatched Result' : 'Tool Call';
            }
            if (node.kind === 'final_response') return 'Final Response';
            if (node.role === 'system') return 'System';
            return 'Assistant';
        }

        function renderGraph() {
            const container = document.getElementById('graph-container');
            container.innerHTML = '';

            vizData.nodes.forEach((node, index) => {
                if (index > 0) {
                    const arrow = document.createElement('div');
                    arrow.className = 'arrow-horizontal';
                    container.appendChild(arrow);
                }

                const column = document.createElement('div');
                column.className = 'graph-column';

                const nodeEl = document.createElement('div');
                nodeEl.className = 'graph-node node-' + node.kind + ' role-' + node.role;
                if (node.unmatched || node.pending || node.opaque) {
                    nodeEl.classList.add('flagged');
                }
                nodeEl.dataset.nodeId = node.id;

                const kind = document.createElement('div');
                kind.className = 'node-kind';
                kind.textContent = kindTitle(node);
                nodeEl.appendChild(kind);

                const label = document.createElement('div');
                label.className = 'node-label';
                label.textContent = node.label;
                nodeEl.appendChild(label);

                const flags = nodeFlags(node);
                if (flags) {
                    const flag = document.createElement('div');
                    flag.className = 'node-flag';
                    flag.textContent = flags;
                    nodeEl.appendChild(flag);
                }

                nodeEl.addEventListener('click', () => selectNode(index));

                column.appendChild(nodeEl);
                container.appendChild(column);
            });

            if (vizData.nodes.length > 0) {
                selectNode(0);
            }
        }

        function nodeFlags(node) {
            const flags = [];
            if (node.pending) flags.push('no result');
            if (node.unmatched) flags.push('no matching call');
            if (node.opaque) flags.push('unrecognized content');
            if (node.detail.is_error) flags.push('error');
            return flags.join(', ');
        }

        function showNodeDetails(node) {
            document.querySelectorAll('.graph-node').forEach(el => {
                el.classList.remove('active');
            });
            const el = document.querySelector('[data-node-id="' + node.id + '"]');
            if (el) el.classList.add('active');

            const container = document.getElementById('node-details-container');
            let html = '';

            if (node.kind === 'tool_call') {
                html += '<div class="node-details">';
                html += '<h3>' + escapeHtml(kindTitle(node)) + ': ' + escapeHtml(node.detail.tool_name || node.detail.tool_use_id || '') + '</h3>';
                if (node.detail.status) {
                    html += '<p><strong>Status:</strong> ' + escapeHtml(node.detail.status) + '</p>';
                }
                if (node.detail.input !== undefined) {
                    html += '<div class="tool-input-box"><p><strong>Input:</strong></p>';
                    html += '<div class="content-block"><pre><code>' + escapeHtml(JSON.stringify(node.detail.input, null, 4)) + '</code></pre></div></div>';
                }
                if (node.detail.result !== undefined) {
                    html += '<div class="tool-result-box' + (node.detail.is_error ? ' error' : '') + '"><p><strong>Result:</strong></p>';
                    html += '<div class="content-block">' + renderResult(node.detail.result) + '</div></div>';
                } else if (node.pending) {
                    html += '<p><em>No result received before the conversation ended.</em></p>';
                }
                html += '</div>';
            } else if (node.opaque) {
                html += '<div class="node-details">';
                html += '<h3>Unrecognized Content</h3>';
                html += '<div class="content-block"><pre><code>' + escapeHtml(JSON.stringify(node.detail.raw, null, 4)) + '</code></pre></div>';
                html += '</div>';
            } else {
                html += '<div class="node-details">';
                html += '<h3>' + escapeHtml(kindTitle(node)) + '</h3>';
                html += '<div class="content-block">' + renderMarkdown(node.detail.text) + '</div>';
                html += '</div>';
            }

            container.innerHTML = html;
        }

        function renderResult(result) {
            if (typeof result === 'string') {
                return renderContent(result);
            }
            if (Array.isArray(result) && result.length > 0 && typeof result[0].text === 'string') {
                return renderContent(result[0].text);
            }
            return '<pre><code>' + escapeHtml(JSON.stringify(result, null, 4)) + '</code></pre>';
        }

        function renderContent(text) {
            if (!text) return '';
            try {
                const parsed = JSON.parse(text);
                return '<pre><code>' + escapeHtml(JSON.stringify(parsed, null, 4)) + '</code></pre>';
            } catch (e) {
                return renderMarkdown(text);
            }
        }

        function renderMarkdown(text) {
            if (!text) return '';
            if (typeof marked !== 'undefined') {
                try {
                    return marked.parse(text);
                } catch (e) {
                    return escapeHtml(text);
                }
            }
            return escapeHtml(text);
        }

        function escapeHtml(text) {
            const div = document.createElement('div');
            div.textContent = text;
            return div.innerHTML;
        }

        graphPanel.addEventListener('click', () => {
            graphPanel.focus();
        });

        renderGraph();
        graphPanel.focus();
    </script>
</body>
</html>
`
