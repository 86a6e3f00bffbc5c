package view

// pageTemplate is the history dashboard. Styling and charting follow the
// CDN-based Tailwind + Chart.js setup used across our report pages.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.ProjectName}} - Comparison Run History</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.min.js"></script>
    <style>
        @import url('https://fonts.googleapis.com/css2?family=Inter:wght@400;500;600;700&display=swap');
        body { font-family: 'Inter', sans-serif; }
    </style>
</head>
<body class="bg-gray-50">
    <!-- Header -->
    <header class="bg-white border-b border-gray-200 sticky top-0 z-50 shadow-sm">
        <div class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-4">
            <div class="flex items-center justify-between">
                <div>
                    <h1 class="text-2xl font-bold text-gray-900">{{.ProjectName}}</h1>
                    <p class="text-sm text-gray-500 mt-1">Comparison Run History - {{formatTimestamp .GeneratedAt}}</p>
                </div>
                <div class="flex items-center gap-4">
                    <span class="px-3 py-1 rounded-full text-sm font-medium {{if gt .Summary.SuccessRate 80.0}}bg-green-100 text-green-800{{else if gt .Summary.SuccessRate 50.0}}bg-yellow-100 text-yellow-800{{else}}bg-red-100 text-red-800{{end}}">
                        {{formatSuccessRate .Summary.SuccessRate}}% Passing
                    </span>
                    <span class="text-sm text-gray-600 capitalize">Trend: {{.Trend}}</span>
                    {{if not .Static}}
                    <button onclick="clearAll()" class="px-4 py-2 bg-red-600 text-white rounded-lg hover:bg-red-700 transition-colors text-sm font-medium">
                        Clear History
                    </button>
                    {{end}}
                </div>
            </div>
        </div>
    </header>

    <!-- Main Content -->
    <main class="max-w-7xl mx-auto px-4 sm:px-6 lg:px-8 py-8">

        <!-- Summary Cards -->
        <section class="mb-8">
            <div class="grid grid-cols-1 md:grid-cols-2 lg:grid-cols-4 gap-6">
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6 hover:shadow-md transition-shadow">
                    <p class="text-sm font-medium text-gray-600">Total Runs</p>
                    <p class="text-3xl font-bold text-gray-900 mt-2">{{.Summary.Total}}</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border border-green-200 p-6 hover:shadow-md transition-shadow">
                    <p class="text-sm font-medium text-gray-600">Passed</p>
                    <p class="text-3xl font-bold text-green-600 mt-2">{{.Summary.Passed}}</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border {{if gt .Summary.Failed 0}}border-red-300{{else}}border-gray-200{{end}} p-6 hover:shadow-md transition-shadow">
                    <p class="text-sm font-medium text-gray-600">Failed</p>
                    <p class="text-3xl font-bold text-red-600 mt-2">{{.Summary.Failed}}</p>
                </div>
                <div class="bg-white rounded-lg shadow-sm border {{if gt .Summary.AtRisk 0}}border-yellow-300{{else}}border-gray-200{{end}} p-6 hover:shadow-md transition-shadow">
                    <p class="text-sm font-medium text-gray-600">At Risk</p>
                    <p class="text-3xl font-bold text-yellow-600 mt-2">{{.Summary.AtRisk}}</p>
                </div>
            </div>
        </section>

        <div class="grid grid-cols-1 lg:grid-cols-3 gap-6">
            <!-- Distribution Chart -->
            <section class="lg:col-span-1">
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 p-6">
                    <h2 class="text-sm font-medium text-gray-700 mb-4">Result Distribution</h2>
                    <div style="position: relative; height: 250px; width: 100%;">
                        <canvas id="distributionChart"></canvas>
                    </div>
                </div>
            </section>

            <!-- History Table -->
            <section class="lg:col-span-2">
                <div class="bg-white rounded-lg shadow-sm border border-gray-200 overflow-hidden">
                    <table class="min-w-full divide-y divide-gray-200">
                        <thead class="bg-gray-50">
                            <tr>
                                <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Executed</th>
                                <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Mode</th>
                                <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Source / Target</th>
                                <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Tests</th>
                                <th class="px-4 py-3 text-left text-xs font-medium text-gray-500 uppercase tracking-wider">Status</th>
                                {{if not .Static}}
                                <th class="px-4 py-3"></th>
                                {{end}}
                            </tr>
                        </thead>
                        <tbody class="divide-y divide-gray-200">
                            {{range .Items}}
                            <tr class="hover:bg-gray-50" data-run-id="{{.ID}}">
                                <td class="px-4 py-3 text-sm text-gray-900 whitespace-nowrap">{{formatTimestamp .Timestamp}}</td>
                                <td class="px-4 py-3 text-sm text-gray-600">{{.ComparisonMode}}</td>
                                <td class="px-4 py-3 text-sm text-gray-600">
                                    <span class="font-medium">{{.Source}}</span>
                                    {{if .Target}}<span class="text-gray-400"> → </span>{{.Target}}{{end}}
                                </td>
                                <td class="px-4 py-3 text-sm text-gray-600 whitespace-nowrap">{{.PassedTests}}/{{.TotalTests}}</td>
                                <td class="px-4 py-3">
                                    <span class="inline-flex items-center px-2.5 py-0.5 rounded-full text-xs font-medium {{badgeClass .Status}}" title="{{.ErrorMessage}}">
                                        {{statusIcon .Status}} {{.Status}}
                                    </span>
                                </td>
                                {{if not $.Static}}
                                <td class="px-4 py-3 text-right">
                                    <button onclick="deleteRun('{{.ID}}')" class="text-sm text-red-600 hover:text-red-800 font-medium">Delete</button>
                                </td>
                                {{end}}
                            </tr>
                            {{else}}
                            <tr>
                                <td colspan="6" class="px-4 py-8 text-center text-sm text-gray-500">No comparison runs recorded yet.</td>
                            </tr>
                            {{end}}
                        </tbody>
                    </table>
                </div>
            </section>
        </div>
    </main>

    <script>
        const distributionCtx = document.getElementById('distributionChart');
        new Chart(distributionCtx, {
            type: 'doughnut',
            data: {
                labels: ['Passed', 'Failed', 'At Risk', 'Unknown'],
                datasets: [{
                    data: [{{.Summary.Passed}}, {{.Summary.Failed}}, {{.Summary.AtRisk}}, {{.Summary.Unknown}}],
                    backgroundColor: ['#10b981', '#ef4444', '#f59e0b', '#9ca3af'],
                    borderWidth: 0
                }]
            },
            options: {
                responsive: true,
                maintainAspectRatio: false,
                plugins: {
                    legend: { position: 'bottom' }
                }
            }
        });

        {{if not .Static}}
        async function deleteRun(id) {
            if (!confirm('Delete this run from history?')) return;
            try {
                const resp = await fetch('/api/history/' + id, { method: 'DELETE' });
                if (!resp.ok) throw new Error('delete failed: ' + resp.status);
                window.location.reload();
            } catch (err) {
                alert('Failed to delete run: ' + err.message);
            }
        }

        async function clearAll() {
            if (!confirm('Delete ALL runs from history? This cannot be undone.')) return;
            try {
                const resp = await fetch('/api/history', { method: 'DELETE' });
                if (!resp.ok) throw new Error('clear failed: ' + resp.status);
                window.location.reload();
            } catch (err) {
                alert('Failed to clear history: ' + err.message);
            }
        }
        {{end}}
    </script>
</body>
</html>
`
